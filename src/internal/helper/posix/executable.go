// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"strings"
)

// ExecutableName returns the name the program was invoked as, without
// directories or a trailing ".exe". Both '/' and '\' separate directories,
// so a Windows path is handled on Unix and the other way round.
//
// Returns fallback when os.Args[0] is empty or names only directories.
func ExecutableName(fallback string) string {
	if len(os.Args) == 0 {
		return fallback
	}
	return baseName(os.Args[0], fallback)
}

func baseName(arg0, fallback string) string {
	parts := strings.FieldsFunc(arg0, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(parts) == 0 {
		return fallback
	}
	name := strings.TrimSuffix(parts[len(parts)-1], ".exe")
	if name == "" || name == "." || name == ".." {
		return fallback
	}
	return name
}
