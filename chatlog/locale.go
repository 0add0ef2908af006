package chatlog

import "regexp"

// CanonicalReplyHeader is the internal phrasing every localized reply header
// is normalized to before storage.
const CanonicalReplyHeader = "Replying to"

// replySeparator joins a reply header and the quoted reply body into one
// logical record.
const replySeparator = " → "

// PhraseSet holds the phrasings recognized for one locale of chat export.
// Reaction patterns are tried in order and must capture exactly two groups:
// the target message text and the emoji.
type PhraseSet struct {
	Locale           string
	ReplyHeader      string
	ReactionPatterns []*regexp.Regexp
}

// reactionPatterns builds the ordered pattern set for a locale's
// "reacted to X with Y" phrasing, covering all combinations of
// quoted/unquoted message and quoted/unquoted emoji. Quoted forms are tried
// first so quotes are never captured as part of the text.
func reactionPatterns(verb, prep string) []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`^` + verb + ` "(.+)" ` + prep + ` "(.+)"$`),
		regexp.MustCompile(`^` + verb + ` "(.+)" ` + prep + ` (\S+)$`),
		regexp.MustCompile(`^` + verb + ` (.+) ` + prep + ` "(.+)"$`),
		regexp.MustCompile(`^` + verb + ` (.+) ` + prep + ` (\S+)$`),
	}
}

// DefaultPhrases returns the built-in phrase table. English is canonical;
// additional locales are recognized on input and normalized to English
// phrasing before storage. New locales register here.
func DefaultPhrases() []PhraseSet {
	return []PhraseSet{
		{
			Locale:           "en",
			ReplyHeader:      CanonicalReplyHeader,
			ReactionPatterns: reactionPatterns("Reacted to", "with"),
		},
		{
			Locale:           "es",
			ReplyHeader:      "Respondiendo a",
			ReactionPatterns: reactionPatterns("Reaccionó a", "con"),
		},
	}
}
