package domain

type CampaignID string

const (
	CampaignPilgrim CampaignID = "pilgrim"
	CampaignDavid   CampaignID = "david"
	CampaignPaul    CampaignID = "paul"
)

// GameLevel is the part of a campaign level the guide needs to hold a conversation
type GameLevel struct {
	Number    int
	Name      string
	Sin       string
	Virtue    string
	Story     string
	Reference string
	Character string
	KeyVerse  string

	// Opening narration, also used when no model is available
	NarrativeIntro string
}

type Campaign struct {
	ID     CampaignID
	Title  string
	Levels []GameLevel
}

func (c Campaign) LevelCount() int {
	return len(c.Levels)
}

// Level returns the level with the given 1-indexed number
func (c Campaign) Level(number int) (GameLevel, bool) {
	if number < 1 || number > len(c.Levels) {
		return GameLevel{}, false
	}
	return c.Levels[number-1], true
}

type Campaigns struct {
	byID map[CampaignID]Campaign
	ids  []CampaignID
}

func NewCampaigns(campaigns ...Campaign) Campaigns {
	byID := make(map[CampaignID]Campaign, len(campaigns))
	ids := make([]CampaignID, 0, len(campaigns))
	for _, campaign := range campaigns {
		byID[campaign.ID] = campaign
		ids = append(ids, campaign.ID)
	}
	return Campaigns{byID: byID, ids: ids}
}

func (c Campaigns) Lookup(id CampaignID) (Campaign, bool) {
	campaign, ok := c.byID[id]
	return campaign, ok
}

func (c Campaigns) IDs() []CampaignID {
	ids := make([]CampaignID, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// DefaultCampaigns holds the playable campaigns
var DefaultCampaigns = NewCampaigns(
	Campaign{
		ID:    CampaignPilgrim,
		Title: "Pilgrim's Path",
		Levels: []GameLevel{
			{
				Number:         1,
				Name:           "The Grey Cave",
				Sin:            "Apathy (Limbo)",
				Virtue:         "Hope",
				Story:          "The Whispers at Horeb",
				Reference:      "1 Kings 19:11-13",
				Character:      "Elijah",
				KeyVerse:       "And after the fire came a gentle whisper. (1 Kings 19:12)",
				NarrativeIntro: "You stand beside Elijah at the mouth of the cave. He believes he is the only faithful one left. The wind howls.",
			},
			{
				Number:         2,
				Name:           "The Palace Roof",
				Sin:            "Lust",
				Virtue:         "Self-Control",
				Story:          "The King's Gaze",
				Reference:      "2 Samuel 11",
				Character:      "David",
				KeyVerse:       "Create in me a pure heart, O God. (Psalm 51:10)",
				NarrativeIntro: "King David paces the roof. His armies are at war, but he is here, idle.",
			},
			{
				Number:         3,
				Name:           "The Lentil Field",
				Sin:            "Gluttony",
				Virtue:         "Temperance",
				Story:          "The Birthright Trade",
				Reference:      "Genesis 25",
				Character:      "Esau",
				KeyVerse:       "Man shall not live on bread alone. (Matthew 4:4)",
				NarrativeIntro: "Esau returns from the hunt, famished. He sees a bowl of red stew.",
			},
			{
				Number:         4,
				Name:           "The Dusty Road",
				Sin:            "Greed",
				Virtue:         "Charity",
				Story:          "The Rich Young Ruler",
				Reference:      "Mark 10",
				Character:      "The Young Ruler",
				KeyVerse:       "It is easier for a camel to go through the eye of a needle. (Mark 10:25)",
				NarrativeIntro: "A wealthy young man approaches Jesus. His hands are too full of gold.",
			},
			{
				Number:         5,
				Name:           "The Field of Blood",
				Sin:            "Wrath",
				Virtue:         "Patience",
				Story:          "The First Murder",
				Reference:      "Genesis 4",
				Character:      "Cain",
				KeyVerse:       "Refrain from anger and turn from wrath. (Psalm 37:8)",
				NarrativeIntro: "Cain's countenance has fallen. Jealousy burns in his chest.",
			},
			{
				Number:         6,
				Name:           "The Locked Room",
				Sin:            "Heresy (Unbelief)",
				Virtue:         "Faithfulness",
				Story:          "The Doubter",
				Reference:      "John 20",
				Character:      "Thomas",
				KeyVerse:       "Blessed are those who have not seen and yet have believed. (John 20:29)",
				NarrativeIntro: "Thomas sits in the corner. 'Unless I see the nail marks... I will not believe.'",
			},
			{
				Number:         7,
				Name:           "The Garden Night",
				Sin:            "Violence",
				Virtue:         "Peace",
				Story:          "The Sword Strike",
				Reference:      "Matthew 26",
				Character:      "Peter",
				KeyVerse:       "Put your sword back in its place. (Matthew 26:52)",
				NarrativeIntro: "Soldiers approach. Peter draws his sword in fear.",
			},
			{
				Number:         8,
				Name:           "The Tent of Deceit",
				Sin:            "Fraud",
				Virtue:         "Truth",
				Story:          "The Stolen Blessing",
				Reference:      "Genesis 27",
				Character:      "Jacob",
				KeyVerse:       "The Lord detests lying lips. (Proverbs 12:22)",
				NarrativeIntro: "Jacob prepares to deceive his blind father for a blessing.",
			},
			{
				Number:         9,
				Name:           "The Courtyard",
				Sin:            "Treachery",
				Virtue:         "Loyalty",
				Story:          "The Denial",
				Reference:      "Luke 22",
				Character:      "Peter",
				KeyVerse:       "Lord, you know all things; you know that I love you. (John 21:17)",
				NarrativeIntro: "Peter warms his hands. A servant girl asks if he knows Jesus.",
			},
		},
	},
	Campaign{
		ID:    CampaignDavid,
		Title: "David's Rise",
		Levels: []GameLevel{
			{
				Number:         1,
				Name:           "The Sheep Pasture",
				Sin:            "Fear",
				Virtue:         "Courage",
				Story:          "The Lion and the Bear",
				Reference:      "1 Samuel 17:34-37",
				Character:      "Young David",
				KeyVerse:       "The Lord who rescued me from the paw of the lion... will rescue me. (1 Samuel 17:37)",
				NarrativeIntro: "You are alone with the sheep. A shadow moves in the brush. A lion crouches, ready to strike the flock. Panic rises.",
			},
			{
				Number:         2,
				Name:           "Valley of Elah",
				Sin:            "Doubt",
				Virtue:         "Faith",
				Story:          "Facing the Giant",
				Reference:      "1 Samuel 17",
				Character:      "David",
				KeyVerse:       "The battle is the Lord's. (1 Samuel 17:47)",
				NarrativeIntro: "Goliath shouts blasphemies against God. The soldiers of Israel tremble. You hold only a sling and five stones.",
			},
			{
				Number:         3,
				Name:           "Cave of Adullam",
				Sin:            "Vengeance",
				Virtue:         "Mercy",
				Story:          "Cutting the Robe",
				Reference:      "1 Samuel 24",
				Character:      "David",
				KeyVerse:       "I will not lay my hand on my lord, because he is the Lord's anointed. (1 Samuel 24:10)",
				NarrativeIntro: "King Saul, who wants to kill you, enters the cave alone to relieve himself. Your men whisper, 'Kill him now!'",
			},
		},
	},
	Campaign{
		ID:    CampaignPaul,
		Title: "Paul's Mission",
		Levels: []GameLevel{
			{
				Number:         1,
				Name:           "Road to Damascus",
				Sin:            "Pride",
				Virtue:         "Surrender",
				Story:          "The Great Light",
				Reference:      "Acts 9",
				Character:      "Saul of Tarsus",
				KeyVerse:       "Lord, what do You want me to do? (Acts 9:6)",
				NarrativeIntro: "You ride with authority, breathing murderous threats against Christians. Suddenly, a light from heaven flashes around you.",
			},
			{
				Number:         2,
				Name:           "Philippian Jail",
				Sin:            "Despair",
				Virtue:         "Joy",
				Story:          "Midnight Praise",
				Reference:      "Acts 16",
				Character:      "Paul",
				KeyVerse:       "Rejoice in the Lord always. (Philippians 4:4)",
				NarrativeIntro: "You are beaten, bleeding, and locked in stocks for doing good. It is midnight. The darkness whispers hopelessness.",
			},
			{
				Number:         3,
				Name:           "The Stormy Sea",
				Sin:            "Panic",
				Virtue:         "Trust",
				Story:          "The Shipwreck",
				Reference:      "Acts 27",
				Character:      "Paul",
				KeyVerse:       "Keep up your courage, for I have faith in God that it will happen just as he told me. (Acts 27:25)",
				NarrativeIntro: "The storm has raged for days. Neither sun nor stars have appeared. All hope of being saved is given up.",
			},
		},
	},
)
