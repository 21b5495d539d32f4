package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

func writeOutput(w io.Writer, path string, payload []byte) error {
	if path == "" {
		if _, err := w.Write(payload); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func (a *app) print(v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(a.stdout, a.out, payload)
}
