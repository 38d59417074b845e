/*
 Supplier of the input lines
*/

package strings_storage

import (
	"bufio"
	"io"
)

// maximum accepted line length
const MaxLineLen = 1024 * 1024

// Supplier hands out the lines in order; ok is false after the last one
type Supplier interface {
	Next() (line string, ok bool)
	Err() error
}

/*
Storage keeps all the lines in memory
*/
type Storage struct {
	index   int
	strings []string
}

func NewStorage() *Storage {
	retVal := new(Storage)
	retVal.strings = make([]string, 0)
	return retVal
}

func NewStorageFrom(lines []string) *Storage {
	retVal := NewStorage()
	for _, s := range lines {
		retVal.Accept(s)
	}
	return retVal
}

func (storage *Storage) Next() (string, bool) {
	if storage.index >= len(storage.strings) {
		// no more strings in the storage
		return "", false
	}
	index := storage.index
	storage.index++
	return storage.strings[index], true
}

func (storage *Storage) Err() error {
	return nil
}

// empty strings are kept, line numbers must not shift
func (storage *Storage) Accept(s string) {
	storage.strings = append(storage.strings, s)
}

/*
LineScanner streams the lines of a reader
*/
type LineScanner struct {
	scanner *bufio.Scanner
}

func NewLineScanner(r io.Reader) *LineScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineLen)
	return &LineScanner{scanner: sc}
}

func (ls *LineScanner) Next() (string, bool) {
	if !ls.scanner.Scan() {
		return "", false
	}
	return ls.scanner.Text(), true
}

func (ls *LineScanner) Err() error {
	return ls.scanner.Err()
}
