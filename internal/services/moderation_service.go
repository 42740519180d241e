package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
)

const maxCommentLength = 2000

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"phishing", "malware",
}

// ModerationService screens comment text. Links are allowed since pointing
// at a product page is the normal use of a wishlist comment.
type ModerationService struct {
	bannedWordRegexps   []*regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	allCapsPattern      *regexp.Regexp
}

func NewModerationService() *ModerationService {
	ms := &ModerationService{
		bannedWordRegexps:   make([]*regexp.Regexp, 0, len(BannedWords)),
		repeatedCharPattern: repeatedRunPattern(6),
		allCapsPattern:      regexp.MustCompile(`\b[A-Z]{5,}\b`),
	}
	for _, word := range BannedWords {
		ms.bannedWordRegexps = append(ms.bannedWordRegexps, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return ms
}

// repeatedRunPattern matches any letter or !?. repeated n or more times.
func repeatedRunPattern(n int) *regexp.Regexp {
	alts := make([]string, 0, 29)
	for c := 'a'; c <= 'z'; c++ {
		alts = append(alts, string(c)+"{"+strconv.Itoa(n)+",}")
	}
	for _, c := range []string{`!`, `\?`, `\.`} {
		alts = append(alts, c+"{"+strconv.Itoa(n)+",}")
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(alts, "|") + `)`)
}

// FilterContent returns false and a reason code when text should be rejected.
func (ms *ModerationService) FilterContent(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return false, "empty_content"
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return false, "too_long"
	}
	for _, re := range ms.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if ms.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	if len(ms.allCapsPattern.FindAllString(text, -1)) > 2 {
		return false, "excessive_caps"
	}
	return true, ""
}

func (ms *ModerationService) GetRejectionMessage(reason string) string {
	messages := map[string]string{
		"empty_content":          "Comment cannot be empty.",
		"too_long":               "Comment is too long.",
		"inappropriate_language": "Your comment contains inappropriate language.",
		"spam_detected":          "Your comment appears to be spam.",
		"excessive_caps":         "Please avoid using excessive capital letters.",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "Your comment does not meet our content guidelines."
}

// Check is FilterContent as an error.
func (ms *ModerationService) Check(text string) error {
	if ok, reason := ms.FilterContent(text); !ok {
		return apperr.New(apperr.ErrValidation, reason, ms.GetRejectionMessage(reason))
	}
	return nil
}
