// Package frontend parses simple-C sources with tree-sitter and drives the
// cfg construction events in source traversal order. Statement and
// expression text stays opaque: the front-end only decides which fragments
// go to which block and when scopes open and close.
package frontend

// FunctionInfo describes one function found in a source file.
type FunctionInfo struct {
	Name    string `json:"name"`
	RetType string `json:"ret_type"`
	Params  string `json:"params"`
}
