package llm

import "fmt"

// SystemPromptCoach frames the assistant's role for every prompt generation.
const SystemPromptCoach = `You are a supportive communication coach. The user is practicing speaking out loud and you help them keep going.

RULES:
- Respond with exactly ONE short prompt (a question or a nudge), at most two sentences.
- React to what the user actually said; pick up their words when possible.
- Stay on the practice topic.
- Never critique delivery or grammar mid-session; keep the user talking.
- No preamble, no lists, no quotation marks around your prompt.`

// UserPrompt builds the per-call instruction embedding the transcript
// increment and the topic verbatim.
func UserPrompt(transcription, topic string) string {
	return fmt.Sprintf("The user is practicing the topic %q. They just said: %q. Give one short coaching prompt that helps them continue.", topic, transcription)
}
