package multipart

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// DefaultFieldMemoryLimit is the per-field in-memory threshold used by the
// parser (1MB). Standalone SmartFiles default to DefaultMemoryLimit instead.
const DefaultFieldMemoryLimit = 1 << 20 // 1 MB

// flushFactor controls when a field body that has not seen its closing
// boundary yet is flushed to its SmartFile: once the working buffer grows
// past flushFactor times the boundary marker length, everything but a short
// tail is flushed so memory stays bounded.
const flushFactor = 40

const dispositionMarker = "Content-Disposition: form-data;"

var headerTerminator = []byte("\r\n\r\n")

type parserState uint8

const (
	// stateBoundary awaits the next start-boundary marker.
	stateBoundary parserState = iota
	// stateHeaders awaits the blank line terminating a part's header block.
	stateHeaders
	// stateBody routes content bytes to the active field until the next
	// boundary marker is found.
	stateBody
)

func (s parserState) String() string {
	switch s {
	case stateBoundary:
		return "expecting_boundary"
	case stateHeaders:
		return "expecting_headers"
	case stateBody:
		return "expecting_body"
	default:
		return "unknown"
	}
}

type field struct {
	params map[string]string
	file   *SmartFile
}

// Parser is the streaming multipart/form-data state machine. Construct one
// per request body with NewParser, deliver body chunks in arrival order with
// Feed, then materialize the decoded fields once with Consume.
//
// A Parser is not safe for concurrent use; distinct parsers share no state.
type Parser struct {
	startBoundary []byte
	endBoundary   []byte

	state       parserState
	buf         []byte
	current     *SmartFile
	currentName string
	fields      map[string]*field
	done        bool

	fileOpts []SmartFileOption
	log      *slog.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithFileOptions sets SmartFile options applied to every field the parser
// creates, overriding the parser's per-field defaults.
//
// Example:
//
//	p := multipart.NewParser(boundary,
//		multipart.WithFileOptions(
//			multipart.WithMemoryLimit(4<<20),
//			multipart.WithTempDir("/var/spool/uploads"),
//		),
//	)
func WithFileOptions(opts ...SmartFileOption) ParserOption {
	return func(p *Parser) {
		p.fileOpts = append(p.fileOpts, opts...)
	}
}

// WithLogger sets a structured logger for parse progress events.
// Nil loggers are ignored; the default discards everything.
func WithLogger(log *slog.Logger) ParserOption {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// NewParser creates a parser for one request body delimited by the given
// boundary token, as extracted from the Content-Type header.
func NewParser(boundary []byte, opts ...ParserOption) *Parser {
	start := append([]byte("--"), boundary...)
	end := append(append([]byte{}, start...), '-', '-', '\r', '\n')

	p := &Parser{
		startBoundary: start,
		endBoundary:   end,
		state:         stateBoundary,
		fields:        make(map[string]*field),
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Feed appends chunk to the parser's working buffer and advances the state
// machine as far as the available bytes allow. It may be called any number
// of times; chunks after the end marker has been recognized are ignored.
//
// Returns ErrMalformedBody when a start boundary cannot be located even
// though enough bytes are buffered to contain one, or a storage error when
// writing a spilled field fails.
func (p *Parser) Feed(ctx context.Context, chunk []byte) error {
	if p.done {
		return nil
	}

	p.buf = append(p.buf, chunk...)

	for {
		if bytes.Equal(p.buf, p.endBoundary) {
			p.done = true
			p.buf = nil
			p.log.DebugContext(ctx, "multipart body complete", slog.Int("fields", len(p.fields)))
			return nil
		}

		var progressed bool
		var err error
		switch p.state {
		case stateBoundary:
			progressed, err = p.consumeBoundary()
		case stateHeaders:
			progressed = p.consumeHeaders(ctx)
		case stateBody:
			progressed, err = p.consumeBody(ctx)
		}
		if err != nil {
			return err
		}
		if !progressed {
			return nil
		}
	}
}

// consumeBoundary discards everything up to and including the next start
// boundary. A buffer that could still grow into the end marker waits for
// more data so a split end marker is never misread as a part boundary.
func (p *Parser) consumeBoundary() (bool, error) {
	if bytes.HasPrefix(p.endBoundary, p.buf) {
		return false, nil
	}
	if len(p.buf) < len(p.startBoundary) {
		return false, nil
	}

	i := bytes.Index(p.buf, p.startBoundary)
	if i == -1 {
		return false, ErrMalformedBody
	}

	p.buf = p.buf[i+len(p.startBoundary):]
	p.state = stateHeaders
	return true, nil
}

// consumeHeaders waits for the CRLFCRLF terminating the part's header block,
// then registers a SmartFile for the field. Parts without a name parameter
// are drained but never surfaced.
func (p *Parser) consumeHeaders(ctx context.Context) bool {
	i := bytes.Index(p.buf, headerTerminator)
	if i == -1 {
		return false
	}

	params := parseDisposition(p.buf[:i])
	p.buf = p.buf[i+len(headerTerminator):]

	opts := append([]SmartFileOption{WithMemoryLimit(DefaultFieldMemoryLimit)}, p.fileOpts...)
	sf := NewSmartFile(params["filename"], opts...)

	name := params["name"]
	if name != "" {
		if prev, ok := p.fields[name]; ok {
			// Latest part wins; reclaim the replaced field's temp file.
			_ = prev.file.Close()
		}
		p.fields[name] = &field{params: params, file: sf}
	}

	p.current = sf
	p.currentName = name
	p.state = stateBody

	p.log.DebugContext(ctx, "multipart part opened",
		slog.String("name", name),
		slog.String("filename", params["filename"]),
	)
	return true
}

// consumeBody routes content bytes to the active SmartFile. The two bytes
// before a found boundary are the CRLF terminating the part and are trimmed.
// While the boundary is still missing, an oversized buffer is flushed down
// to a tail of marker length plus two bytes: long enough that neither a
// split marker nor the CRLF preceding it can leak into the field.
func (p *Parser) consumeBody(ctx context.Context) (bool, error) {
	i := bytes.Index(p.buf, p.startBoundary)
	if i >= 0 {
		end := max(i-2, 0)
		if err := p.current.Write(ctx, p.buf[:end]); err != nil {
			return false, err
		}
		p.buf = p.buf[i:]

		if p.currentName == "" {
			_ = p.current.Close()
		} else {
			p.log.DebugContext(ctx, "multipart part complete",
				slog.String("name", p.currentName),
				slog.Int64("size", p.current.Size()),
				slog.Bool("in_memory", p.current.InMemory()),
			)
		}
		p.current = nil
		p.currentName = ""
		p.state = stateBoundary
		return true, nil
	}

	keep := len(p.startBoundary) + 2
	if len(p.buf) >= flushFactor*len(p.startBoundary) && len(p.buf) > keep {
		flush := p.buf[:len(p.buf)-keep]
		if err := p.current.Write(ctx, flush); err != nil {
			return false, err
		}
		tail := make([]byte, keep)
		copy(tail, p.buf[len(flush):])
		p.buf = tail
	}

	return false, nil
}

// Consume materializes every registered field and returns the field-name to
// value mapping. Call it once, after the end marker has been fed.
func (p *Parser) Consume(ctx context.Context) (Form, error) {
	form := make(Form, len(p.fields))
	for name, fld := range p.fields {
		v, err := fld.file.Consume(ctx)
		if err != nil {
			return nil, err
		}
		v.Params = fld.params
		form[name] = v
	}
	return form, nil
}

// Close releases every temporary file still owned by the parser. Use it
// when a body is abandoned mid-stream; after a successful Consume the
// returned Form owns the files instead.
func (p *Parser) Close() error {
	var errs []error
	for _, fld := range p.fields {
		if err := fld.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.current != nil && p.currentName == "" {
		if err := p.current.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.current = nil
	p.done = true
	return errors.Join(errs...)
}

// parseDisposition extracts the form-data parameters from a part's header
// block: everything after the Content-Disposition: form-data; marker on that
// line, split on ";" into key=value pairs with surrounding whitespace and
// one layer of quotes stripped.
func parseDisposition(block []byte) map[string]string {
	params := make(map[string]string)

	s := string(block)
	idx := strings.Index(s, dispositionMarker)
	if idx == -1 {
		return params
	}

	rest := s[idx+len(dispositionMarker):]
	rest, _, _ = strings.Cut(rest, "\r\n")

	for _, piece := range strings.Split(rest, ";") {
		k, v, ok := strings.Cut(piece, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		v = strings.TrimPrefix(v, `"`)
		v = strings.TrimSuffix(v, `"`)
		if k != "" {
			params[k] = v
		}
	}

	return params
}
