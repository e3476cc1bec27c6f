// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"mime"
	"net/url"
	"path"
)

// contentTypeExt covers the types GitHub attachments are served as. It
// takes precedence over mime.ExtensionsByType, whose first pick for
// image/jpeg is ".jfif".
var contentTypeExt = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"image/bmp":       ".bmp",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"application/pdf": ".pdf",
}

// Extension returns the suffix for a downloaded file. The final URL after
// redirects wins; the Content-Type header is only consulted when that URL
// has no extension. It returns "" when neither yields one.
func Extension(final *url.URL, contentType string) string {
	if final != nil {
		if ext := path.Ext(path.Base(final.Path)); ext != "" && ext != "." {
			return ext
		}
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	if ext, ok := contentTypeExt[mediaType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
