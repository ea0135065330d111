package mcpserver

// FollowUpContract describes how LLM consumers should write follow-up
// completion notes so they grade well in reporting.
const FollowUpContract = `# Hermod Follow-Up Note Contract

Every reminder completed through Hermod carries a completion note that is
graded for reporting.

## Rules

1. **The note is mandatory.** Completing a reminder with an empty or
   whitespace-only note is rejected.
2. **Grading is by word count** (whitespace-separated tokens):
   - fewer than 10 words: red
   - 10 to 20 words: yellow
   - more than 20 words: green
3. **Content** should state the outcome of the follow-up: who was reached,
   what was discussed, and the agreed next step. Aim for green.
4. **Times** passed to tools use RFC 3339 (e.g. 2026-09-01T15:04:05Z).
5. **Repeat intervals** are one of: daily, weekly, monthly. Omit the field
   for one-off reminders.
`
