// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "regexp"

// urlPattern matches scheme-prefixed tokens. A token ends at whitespace, a
// closing parenthesis, or a double quote: Markdown link and HTML attribute
// delimiters. \s is ASCII-only in RE2, so Unicode separators (no-break and
// ideographic spaces, line and paragraph separators), vertical tab, NEL and
// the information separators are listed explicitly.
var urlPattern = regexp.MustCompile(`https?://[^\s\p{Z}\v\x{85}\x{1c}-\x{1f})"]+`)
