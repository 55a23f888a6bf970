package handlers

import (
	"fmt"
	"regexp"
)

// docIDPattern restricts document ids to the characters allowed in the
// route segment.
var docIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateDocID checks the document id extracted from the path.
func validateDocID(docID string) error {
	if !docIDPattern.MatchString(docID) {
		return fmt.Errorf("invalid document id")
	}
	return nil
}
