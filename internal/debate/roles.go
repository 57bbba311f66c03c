// Package debate implements the PRD debate engine: a roster of expert
// personas takes turns critiquing a product-requirements document, streamed
// live over server-sent events, with an orchestrator policy deciding when the
// discussion has stopped adding value.
package debate

// MaxRosterSize caps how many agents may join a single debate.
const MaxRosterSize = 6

// Profile describes one expert persona. Color and avatar are presentation
// hints for the UI roster endpoint.
type Profile struct {
	Name    string `json:"name"`
	Persona string `json:"persona"`
	Color   string `json:"color"`
	Avatar  string `json:"avatar"`
}

// Profiles is the closed set of debate roles. Agent identifiers outside this
// set are dropped during roster validation, not errored.
var Profiles = map[string]Profile{
	"UX Lead": {
		Name:    "UX Lead",
		Persona: "A user experience lead who pushes for clarity of user flows, accessibility, and measurable usability outcomes. Skeptical of features without a clear user problem.",
		Color:   "#8b5cf6",
		Avatar:  "/avatars/ux-lead.png",
	},
	"Backend Engineer": {
		Name:    "Backend Engineer",
		Persona: "A pragmatic backend engineer focused on API design, data modeling, scalability limits, and operational cost. Flags anything underspecified or hard to build reliably.",
		Color:   "#3b82f6",
		Avatar:  "/avatars/backend-engineer.png",
	},
	"Data Scientist": {
		Name:    "Data Scientist",
		Persona: "A data scientist who asks what will be measured, how success is defined, and whether the data to support the product actually exists.",
		Color:   "#10b981",
		Avatar:  "/avatars/data-scientist.png",
	},
	"DevOps Engineer": {
		Name:    "DevOps Engineer",
		Persona: "A DevOps engineer concerned with deployment, observability, rollback strategy, and on-call burden. Wants SLOs stated up front.",
		Color:   "#f59e0b",
		Avatar:  "/avatars/devops-engineer.png",
	},
	"Security Specialist": {
		Name:    "Security Specialist",
		Persona: "A security specialist who probes for threat models, data handling, authentication gaps, and compliance exposure before anything ships.",
		Color:   "#ef4444",
		Avatar:  "/avatars/security-specialist.png",
	},
	"Finance Analyst": {
		Name:    "Finance Analyst",
		Persona: "A finance analyst who weighs build cost against projected return, questions pricing assumptions, and watches for scope that doubles the budget.",
		Color:   "#14b8a6",
		Avatar:  "/avatars/finance-analyst.png",
	},
	"Legal Advisor": {
		Name:    "Legal Advisor",
		Persona: "A legal advisor scanning for regulatory risk, licensing questions, user data obligations, and terms-of-service implications.",
		Color:   "#6366f1",
		Avatar:  "/avatars/legal-advisor.png",
	},
	"Marketing Strategist": {
		Name:    "Marketing Strategist",
		Persona: "A marketing strategist asking who the product is for, how it is positioned against alternatives, and whether the launch story holds together.",
		Color:   "#ec4899",
		Avatar:  "/avatars/marketing-strategist.png",
	},
}

// RoleNames returns the closed role set in a stable order.
func RoleNames() []string {
	return []string{
		"UX Lead",
		"Backend Engineer",
		"Data Scientist",
		"DevOps Engineer",
		"Security Specialist",
		"Finance Analyst",
		"Legal Advisor",
		"Marketing Strategist",
	}
}

// FilterRoster drops unknown role names and truncates the result to
// MaxRosterSize, preserving the caller's ordering.
func FilterRoster(agents []string) []string {
	roster := make([]string, 0, len(agents))
	for _, name := range agents {
		if _, ok := Profiles[name]; ok {
			roster = append(roster, name)
		}
	}
	if len(roster) > MaxRosterSize {
		roster = roster[:MaxRosterSize]
	}
	return roster
}
