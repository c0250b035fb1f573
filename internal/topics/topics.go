package topics

// Topic describes one practice topic a user can pick for a coaching session.
// The catalog is fixed at process start and never mutated.
type Topic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// GuidancePrompts are static fallback prompts shown in order when live
	// AI prompting is unavailable.
	GuidancePrompts []string `json:"guidance_prompts"`
}

// catalog is the fixed, ordered list of practice topics.
var catalog = []Topic{
	{
		ID:          "job-interview",
		Name:        "Job Interview",
		Description: "Practice answering common interview questions with confidence.",
		GuidancePrompts: []string{
			"Tell me about yourself.",
			"What is your greatest professional achievement?",
			"Describe a challenge you faced and how you handled it.",
			"Why do you want this role?",
			"Where do you see yourself in five years?",
		},
	},
	{
		ID:          "debate",
		Name:        "Debate",
		Description: "Sharpen your argumentation by defending a position under pressure.",
		GuidancePrompts: []string{
			"State your position in one sentence.",
			"What is the strongest argument against your view?",
			"Support your claim with a concrete example.",
			"Address the counterargument directly.",
			"Summarize why your position should prevail.",
		},
	},
	{
		ID:          "presentation",
		Name:        "Presentation",
		Description: "Rehearse delivering a clear, structured talk to an audience.",
		GuidancePrompts: []string{
			"Open with a hook that grabs attention.",
			"State the one key message of your talk.",
			"Walk through your main points in order.",
			"Use a story or example to illustrate your point.",
			"Close with a memorable call to action.",
		},
	},
	{
		ID:          "casual-conversation",
		Name:        "Casual Conversation",
		Description: "Get comfortable with small talk and keeping a conversation flowing.",
		GuidancePrompts: []string{
			"Introduce yourself like you would at a party.",
			"Talk about something interesting you did recently.",
			"Ask an open-ended question back.",
			"Share an opinion on a light topic.",
			"Wrap up the conversation politely.",
		},
	},
	{
		ID:          "storytelling",
		Name:        "Storytelling",
		Description: "Practice telling engaging stories with a beginning, middle, and end.",
		GuidancePrompts: []string{
			"Set the scene: where and when does your story start?",
			"Introduce the people involved.",
			"What went wrong, or what changed?",
			"How did it resolve?",
			"What did you take away from it?",
		},
	},
}

// index maps topic ID to its position in the catalog.
var index = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, t := range catalog {
		m[t.ID] = i
	}
	return m
}()

// List returns the fixed ordered catalog of topics.
func List() []Topic {
	return catalog
}

// Find returns the topic with the given ID, or false if no such topic exists.
func Find(id string) (Topic, bool) {
	i, ok := index[id]
	if !ok {
		return Topic{}, false
	}
	return catalog[i], true
}
