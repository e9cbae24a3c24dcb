// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides helpers that behave the same on [POSIX] systems and
// Windows. ExecutableName derives the command name shown in CLI usage lines
// from os.Args[0], whichever separator style the path uses.
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
