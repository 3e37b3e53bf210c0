package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// readURLs loads article URLs from path, one per line.
func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open url file: %w", err)
	}
	defer f.Close()

	urls, err := parseURLs(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read url file: %w", err)
	}
	return urls, nil
}

// parseURLs trims every line and skips blank lines and lines starting with '#'.
func parseURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}
