package strings_storage

import (
	"strings"
	"testing"
)

var testArray = []string{
	"M48",
	"INCH,TZ",
	"T01C0.0100",
	"",
	"%",
	"G05",
	"T01",
	"X010000Y010000",
	"M30",
}

// drains a supplier
func collect(t *testing.T, s Supplier) []string {
	t.Helper()
	retVal := make([]string, 0)
	for {
		line, ok := s.Next()
		if !ok {
			break
		}
		retVal = append(retVal, line)
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	return retVal
}

func TestStorage_Empty(t *testing.T) {
	if _, ok := NewStorage().Next(); ok {
		t.Error("reading from the empty storage error")
	}
}

func TestNewStorageFrom(t *testing.T) {
	const arrLen int = 100
	var storageArray [arrLen]*Storage

	for i := 0; i < arrLen; i++ {
		storageArray[i] = NewStorageFrom(testArray)
	}
	for j := range testArray {
		for i := range storageArray {
			s, ok := storageArray[i].Next()
			if !ok || strings.Compare(testArray[j], s) != 0 {
				t.Error("testArray[j] not equal storageArray[i].Next()")
			}
		}
	}
	// try to read beyond storage size
	for i := range storageArray {
		if _, ok := storageArray[i].Next(); ok {
			t.Error("read beyond storage size succeeded!")
		}
	}
}

func TestStorage_KeepsEmptyLines(t *testing.T) {
	st := NewStorage()
	st.Accept("M48")
	st.Accept("")
	st.Accept("%")
	got := collect(t, st)
	if len(got) != 3 || got[1] != "" {
		t.Errorf("got %q, every line including the empty one must be kept", got)
	}
}

func TestLineScanner(t *testing.T) {
	got := collect(t, NewLineScanner(strings.NewReader(strings.Join(testArray, "\r\n")+"\r\n")))
	if strings.Join(got, "|") != strings.Join(testArray, "|") {
		t.Errorf("got %q, want %q", got, testArray)
	}
}

func TestLineScanner_TooLong(t *testing.T) {
	long := strings.Repeat("X", MaxLineLen+1)
	ls := NewLineScanner(strings.NewReader("M48\n" + long + "\n"))
	for {
		if _, ok := ls.Next(); !ok {
			break
		}
	}
	if ls.Err() == nil {
		t.Error("a line longer than MaxLineLen must fail")
	}
}
