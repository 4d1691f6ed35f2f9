package probe

import (
	"context"
	"fmt"
	"mime"
	"strings"
)

func contextOrBackground(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func defaultHTTPStatusExpectation(status int) bool {
	return status >= 200 && status < 300
}

func nilComponentError(name, component string) error {
	return fmt.Errorf("%s probe: %s is nil", name, component)
}

// mediaTypeMatches compares the media type of a Content-Type header value,
// ignoring parameters such as charset.
func mediaTypeMatches(header, want string) bool {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, want)
}
