package model

// Strategy is the qualitative tag set attached to a post. Every field is
// optional; an untagged dimension stays nil.
type Strategy struct {
	PostID       string
	HookType     *string
	CTAType      *string
	FormatType   *string
	PacingBucket *string
}

const (
	HookQuestion    = "question_hook"
	HookBoldClaim   = "bold_claim"
	HookShockVisual = "shock_visual"
	HookTeaser      = "teaser"
	HookStoryStart  = "story_start"

	CTAFollow    = "follow"
	CTAComment   = "comment"
	CTASave      = "save"
	CTAShare     = "share"
	CTALinkInBio = "link_in_bio"

	FormatTalkingHead     = "talking_head"
	FormatEditMontage     = "edit_montage"
	FormatVoiceover       = "voiceover"
	FormatTextOnly        = "text_only"
	FormatScreenRecording = "screen_recording"

	PacingSlow     = "slow"
	PacingMedium   = "medium"
	PacingFast     = "fast"
	PacingVeryFast = "very_fast"

	UntaggedBucket = "(untagged)"
)
