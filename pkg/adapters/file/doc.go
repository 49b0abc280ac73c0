/*
Package file provides filesystem adapters: a JSON-document key-value medium
and a directory-backed sink factory for exported artifacts.
*/
package file
