// Package reader reads a named global symbol's null-terminated string
// value back out of a compiled shared object, the mechanism
// typeinfo.ReadFromFile uses to recover a module's embedded type
// descriptions after compilation. Grounded on tawago/reader/reader.go.
package reader

import "C"

import (
	"fmt"

	"github.com/coreos/pkg/dlopen"
)

// ReadSymbol opens the shared object at path and returns the
// null-terminated string stored at the given exported symbol name.
func ReadSymbol(path, symbol string) (string, error) {
	handle, err := dlopen.GetHandle([]string{path})
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer handle.Close()

	ptr, err := handle.GetSymbolPointer(symbol)
	if err != nil {
		return "", fmt.Errorf("read symbol %s from %s: %w", symbol, path, err)
	}

	return C.GoString((*C.char)(ptr)), nil
}
