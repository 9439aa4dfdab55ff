// Package multipart implements a streaming decoder for multipart/form-data
// request bodies (RFC 7578).
//
// Unlike mime/multipart, the decoder is push-based: the transport layer feeds
// raw body chunks of arbitrary size into a Parser as they arrive, and the
// parser assembles fields incrementally. No logical unit of the framing
// (boundary marker, header block, field body) is assumed to arrive in a
// single chunk, and memory stays bounded even when a boundary is split
// across many small reads.
//
// Each file field is buffered in memory until it crosses a configurable
// threshold, then transparently spills to a uniquely named temporary file.
// Completed fields are materialized by Consume as either decoded text, an
// in-memory file, or a disk-backed file.
//
// Example:
//
//	p := multipart.NewParser([]byte("boundary123"))
//	defer p.Close()
//
//	for chunk := range bodyChunks {
//		if err := p.Feed(ctx, chunk); err != nil {
//			return err
//		}
//	}
//
//	form, err := p.Consume(ctx)
//	if err != nil {
//		return err
//	}
//	title := form.Text("title")
//	if f := form.File("attachment"); f != nil {
//		if err := f.Save(ctx, "/uploads/attachment.bin"); err != nil {
//			return err
//		}
//	}
//
// A Parser is single-stream: chunks for one body must be fed sequentially by
// one goroutine. Independent parsers share no state and may run concurrently.
package multipart
