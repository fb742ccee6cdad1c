package dto

// Write payloads are separate from the GORM models so request bodies can
// never set fields the route does not mean to expose.

type EntityPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Notes         string `json:"notes"`
	BotToken      string `json:"botToken"`
	BotChatID     string `json:"botChatId"`

	Categories []CategoryPayload `json:"categories"`
}

type CategoryPayload struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Profiles []ProfilePayload `json:"profiles"`
}

type ProfilePayload struct {
	ID           string `json:"id"`
	ProfileName  string `json:"profileName"`
	Type         string `json:"type"`
	MainIP       string `json:"mainIp"`
	IsMirror     bool   `json:"isMirror"`
	MirrorNumber *int   `json:"mirrorNumber"`
}

type LimitPayload struct {
	ID          string  `json:"id"`
	ProfileName string  `json:"profileName"`
	CategoryID  *string `json:"categoryId"`

	LimitActiveSession    string `json:"limitActiveSession"`
	IntervalsInRepo       string `json:"intervalsInRepo"`
	IntervalsQuality      string `json:"intervalsQuality"`
	IntervalsPausedSearch string `json:"intervalsPausedSearch"`
	IntervalsToxic        string `json:"intervalsToxic"`
	IntervalsOther        string `json:"intervalsOther"`
	TotalPaused           int    `json:"totalPaused"`
}

type PlanPayload struct {
	StartTime  string `json:"startTime"`
	Status     string `json:"status"`
	Mode       string `json:"mode"`
	ScriptName string `json:"scriptName"`
	Scenario   string `json:"scenario"`
	Drops      []int  `json:"drops"`

	// DropCount, when set, pads or truncates the drop list to this many
	// slots after the explicit values are applied.
	DropCount int `json:"dropCount"`
}

type ScriptPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ScenarioPayload struct {
	ID          string `json:"id"`
	ScriptID    string `json:"scriptId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
