package domain

import "errors"

var (
	ErrScheduleNotFound    = errors.New("no topic scheduled for today")
	ErrGenerationFailed    = errors.New("generation failed")
	ErrIncompleteArticle   = errors.New("generated article is incomplete")
	ErrBackendLookupFailed = errors.New("backend lookup failed")
	ErrBackendWriteFailed  = errors.New("backend write failed")
	ErrMediaUploadFailed   = errors.New("media upload failed")

	// ErrPostNotFound signals a missing remote record; it drives the create path.
	ErrPostNotFound = errors.New("post not found")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrScheduleNotFound, "schedule_not_found"},
	{ErrGenerationFailed, "generation_failed"},
	{ErrIncompleteArticle, "incomplete_article"},
	{ErrBackendLookupFailed, "backend_lookup_failed"},
	{ErrBackendWriteFailed, "backend_write_failed"},
	{ErrMediaUploadFailed, "media_upload_failed"},
	{ErrPostNotFound, "post_not_found"},
}

// ErrorKind returns a short label for err, or "unknown".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}
