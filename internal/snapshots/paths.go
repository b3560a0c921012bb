package snapshots

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

// maxOrgIDLen bounds ids so the encoded directory name stays under common filename limits.
const maxOrgIDLen = 128

var plainSegmentPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

// ErrInvalidOrgID is returned for organization ids that cannot name a snapshot directory.
var ErrInvalidOrgID = errors.New("invalid organization id")

// OrgSnapshotPath builds the path to an organization's games snapshot.
func OrgSnapshotPath(basePath, orgID string) string {
	return filepath.Join(basePath, "orgs", orgSegment(orgID), "games.json")
}

// orgSegment keeps simple ids readable on disk and base64url-encodes the rest behind
// a "~" prefix, which plain ids can never start with.
func orgSegment(orgID string) string {
	if orgID != "." && orgID != ".." && plainSegmentPattern.MatchString(orgID) {
		return orgID
	}
	return "~" + base64.RawURLEncoding.EncodeToString([]byte(orgID))
}

func validateOrgID(orgID string) error {
	if orgID == "" {
		return fmt.Errorf("%w: empty", ErrInvalidOrgID)
	}
	if len(orgID) > maxOrgIDLen {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidOrgID, maxOrgIDLen)
	}
	return nil
}
