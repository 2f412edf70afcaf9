package ifc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ============================================================
// STEP writer
// ============================================================

const schemaIdentifier = "IFC4"

// Write сериализует документ в path. Существующий файл перезаписывается.
func (s *Store) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := s.encode(f, filepath.Base(path)); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// WriteTo пишет документ в w; имя файла в заголовке пустое.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := s.encode(cw, "")
	return cw.n, err
}

func (s *Store) encode(w io.Writer, name string) error {
	bw := bufio.NewWriter(w)

	timestamp := s.now().UTC().Format("2006-01-02T15:04:05")
	lines := []string{
		"ISO-10303-21;",
		"HEADER;",
		"FILE_DESCRIPTION(('ViewDefinition [DesignTransferView]'),'2;1');",
		fmt.Sprintf("FILE_NAME(%s,%s,(%s),(%s),%s,%s,%s);",
			encodeString(name), encodeString(timestamp), encodeString(s.author), encodeString(""),
			encodeString(s.application), encodeString(s.application), encodeString("")),
		fmt.Sprintf("FILE_SCHEMA(('%s'));", schemaIdentifier),
		"ENDSEC;",
		"DATA;",
	}
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}

	for _, h := range s.handles() {
		if _, err := bw.WriteString(s.entities[h].encode() + "\n"); err != nil {
			return err
		}
	}

	if _, err := bw.WriteString("ENDSEC;\nEND-ISO-10303-21;\n"); err != nil {
		return err
	}
	return bw.Flush()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
