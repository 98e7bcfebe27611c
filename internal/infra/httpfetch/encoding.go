package httpfetch

import (
	"mime"
	"strings"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
)

// decodeBody transcodes a response body to UTF-8. It tries, in order: the
// charset declared on the Content-Type header, a chardet heuristic over the
// first bytes of the body, then falls back to treating the body as UTF-8
// already. Korean news sites occasionally still serve EUC-KR or CP949.
func decodeBody(body []byte, contentType string) []byte {
	if enc := charsetFromContentType(contentType); enc != nil {
		if decoded, err := enc.NewDecoder().Bytes(body); err == nil {
			return decoded
		}
	}

	if enc := detectEncoding(body); enc != nil {
		if decoded, err := enc.NewDecoder().Bytes(body); err == nil {
			return decoded
		}
	}

	return body
}

func charsetFromContentType(contentType string) encoding.Encoding {
	if contentType == "" {
		return nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}
	return encodingByName(params["charset"])
}

func detectEncoding(body []byte) encoding.Encoding {
	sample := body
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || result == nil {
		return nil
	}
	return encodingByName(result.Charset)
}

func encodingByName(name string) encoding.Encoding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8", "":
		return nil
	case "euc-kr", "euckr":
		return korean.EUCKR
	case "cp949", "windows-949", "ms949":
		return korean.EUCKR
	case "windows-1252", "cp1252":
		return charmap.Windows1252
	default:
		return nil
	}
}
