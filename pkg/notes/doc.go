// Package notes implements the sticky note log: a single plain-text file in
// which every note is one line.
//
// The log is created empty on first use, grows through Add and is reset by
// Clear. It is never deleted. Read and Latest report NoNotesSentinel when
// there is nothing to show.
package notes
