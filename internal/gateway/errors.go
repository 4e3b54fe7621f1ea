package gateway

import (
	"errors"
	"fmt"

	dErrors "bazar/pkg/domain-errors"
)

const genericFailureMessage = "API request failed"

// ErrAuthenticationRequired is returned when an authenticated call was
// rejected and the session could not be refreshed.
var ErrAuthenticationRequired = dErrors.New(dErrors.CodeAuthenticationRequired, "your session has expired, please sign in again")

// RequestFailed is a non-2xx backend response.
type RequestFailed struct {
	Status  int
	Message string
}

func (e *RequestFailed) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// Is lets dErrors.HasCode(err, dErrors.CodeRequestFailed) match.
func (e *RequestFailed) Is(target error) bool {
	var de *dErrors.Error
	if errors.As(target, &de) {
		return de.Code == dErrors.CodeRequestFailed
	}
	return false
}

// UserMessage picks the most useful text to show for err: the backend's own
// message when the call failed remotely, otherwise the domain message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rf *RequestFailed
	if errors.As(err, &rf) {
		return rf.Message
	}
	return dErrors.MessageOf(err)
}
