package valueobjects

import "fmt"

// Source is the channel a ticket arrived through.
type Source string

const (
	SourceEmail Source = "email"
	SourceWeb   Source = "web"
	SourceChat  Source = "chat"
	SourceAPI   Source = "api"
	SourcePhone Source = "phone"
)

func (s Source) String() string {
	return string(s)
}

func (s Source) IsValid() bool {
	switch s {
	case SourceEmail, SourceWeb, SourceChat, SourceAPI, SourcePhone:
		return true
	}
	return false
}

func (s Source) Label() string {
	return label(string(s))
}

func NewSource(s string) (Source, error) {
	src := Source(s)
	if !src.IsValid() {
		return "", fmt.Errorf("invalid ticket source: %s", s)
	}
	return src, nil
}
