// Package scenario drives a subpub.Registry from a YAML script of
// subscribe, emit and unsubscribe steps.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Leegeev/chanhub/pkg/subpub"
)

const (
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
	OpEmit        = "emit"
)

var (
	ErrInvalidStep       = errors.New("scenario: invalid step")
	ErrMultipleDocuments = errors.New("scenario: more than one YAML document")
)

// Step is one registry operation. Which fields matter depends on Op.
type Step struct {
	Op      string `yaml:"op"`
	Name    string `yaml:"name"`
	Channel string `yaml:"channel"`
	Data    any    `yaml:"data"`
	// Panic makes a subscribe step register a callback that panics with
	// this message.
	Panic string `yaml:"panic"`
}

type Script struct {
	Steps []Step `yaml:"steps"`
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a script. The input must hold at most one
// YAML document.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	switch err := dec.Decode(&s); {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, fmt.Errorf("scenario: decode: %w", err)
	default:
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, ErrMultipleDocuments
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) Validate() error {
	for i, st := range s.Steps {
		switch st.Op {
		case OpSubscribe, OpUnsubscribe, OpEmit:
		default:
			return fmt.Errorf("%w %d: unknown op %q", ErrInvalidStep, i, st.Op)
		}
		if st.Channel == "" {
			return fmt.Errorf("%w %d: %s needs a channel", ErrInvalidStep, i, st.Op)
		}
		if st.Panic != "" && st.Op != OpSubscribe {
			return fmt.Errorf("%w %d: panic is only valid on subscribe", ErrInvalidStep, i)
		}
	}
	return nil
}

// Run executes s against reg. Subscribers print what they receive to out as
// "<name> <- <channel>: <data>"; unsubscribe steps print their result.
// The first write error stops the run.
func Run(reg *subpub.Registry[any], s *Script, out io.Writer) error {
	p := &printer{out: out}
	for _, st := range s.Steps {
		switch st.Op {
		case OpSubscribe:
			reg.Subscribe(st.Name, st.Channel, p.callback(st))
		case OpUnsubscribe:
			ok := reg.Unsubscribe(st.Name, st.Channel)
			p.printf("unsubscribe %s from %s: %t\n", st.Name, st.Channel, ok)
		case OpEmit:
			reg.Emit(st.Channel, st.Data)
		}
		if p.err != nil {
			return fmt.Errorf("scenario: write: %w", p.err)
		}
	}
	return nil
}

// printer remembers the first write error so callbacks, which cannot return
// one, do not lose it.
type printer struct {
	out io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.out, format, args...)
}

func (p *printer) callback(st Step) subpub.Callback[any] {
	name, channel, msg := st.Name, st.Channel, st.Panic
	if msg != "" {
		return func(any) { panic(msg) }
	}
	return func(data any) {
		p.printf("%s <- %s: %v\n", name, channel, data)
	}
}
