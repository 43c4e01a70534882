package domain

type GuideLanguage string

const DefaultGuideLanguage GuideLanguage = "English"

type GuideRequest struct {
	Campaign CampaignID
	Level    GameLevel
	Message  string
	History  []string
	Language GuideLanguage
}

type IntroRequest struct {
	Campaign CampaignID
	Level    GameLevel
	Language GuideLanguage
}

type GuideResponse struct {
	Text         string
	IsSuccess    bool
	ScriptureRef string
}
