package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// MilestoneOffset is one template entry relative to the TX date.
type MilestoneOffset struct {
	MilestoneType          string `json:"milestoneType"`
	Label                  string `json:"label"`
	DayOffset              int    `json:"dayOffset"`
	TimeOfDay              string `json:"timeOfDay,omitempty"`
	IsClientFacing         bool   `json:"isClientFacing"`
	RequiresClientApproval bool   `json:"requiresClientApproval"`
}

// Template describes a workflow template.
type Template struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	TimelineType     string            `json:"timelineType"`
	IsDefault        bool              `json:"isDefault"`
	MilestoneOffsets []MilestoneOffset `json:"milestoneOffsets"`
	CreatedAt        string            `json:"createdAt,omitempty"`
}

// TemplateListResponse wraps a collection of templates.
type TemplateListResponse struct {
	Templates []Template `json:"templates"`
}

// Episode describes a scheduled episode.
type Episode struct {
	ID              int64  `json:"id"`
	ProjectID       int64  `json:"projectId"`
	TopicProposalID *int64 `json:"topicProposalId,omitempty"`
	Title           string `json:"title"`
	TXDate          string `json:"txDate"`
	TXTime          string `json:"txTime"`
	TimelineType    string `json:"timelineType"`
	TemplateID      int64  `json:"templateId,omitempty"`
	CalendarItemID  string `json:"calendarItemId,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// Milestone describes a production milestone. Overdue is derived at read time.
type Milestone struct {
	ID                     int64  `json:"id"`
	EpisodeID              int64  `json:"episodeId"`
	MilestoneType          string `json:"milestoneType"`
	Label                  string `json:"label"`
	DayOffset              int    `json:"dayOffset"`
	DeadlineDate           string `json:"deadlineDate"`
	DeadlineTime           string `json:"deadlineTime,omitempty"`
	Status                 string `json:"status"`
	IsClientFacing         bool   `json:"isClientFacing"`
	RequiresClientApproval bool   `json:"requiresClientApproval"`
	CompletedAt            string `json:"completedAt,omitempty"`
	Notes                  string `json:"notes,omitempty"`
	Overdue                bool   `json:"overdue"`
}

// MilestoneSummary counts an episode's milestones.
type MilestoneSummary struct {
	Total           int     `json:"total"`
	Pending         int     `json:"pending"`
	InProgress      int     `json:"inProgress"`
	Completed       int     `json:"completed"`
	Skipped         int     `json:"skipped"`
	Overdue         int     `json:"overdue"`
	Progress        float64 `json:"progress"`
	NextMilestoneID int64   `json:"nextMilestoneId,omitempty"`
}

// TimelineEntry is a computed, unsaved milestone.
type TimelineEntry struct {
	MilestoneType  string `json:"milestoneType"`
	Label          string `json:"label"`
	DayOffset      int    `json:"dayOffset"`
	Date           string `json:"date"`
	TimeOfDay      string `json:"timeOfDay,omitempty"`
	IsClientFacing bool   `json:"isClientFacing"`
}

// EpisodeResponse is an episode with its milestones.
type EpisodeResponse struct {
	Episode    Episode          `json:"episode"`
	Milestones []Milestone      `json:"milestones"`
	Summary    MilestoneSummary `json:"summary"`
	Today      string           `json:"today"`
}

// EpisodeListResponse wraps a collection of episodes.
type EpisodeListResponse struct {
	Episodes []Episode `json:"episodes"`
}

// DeadlineChange reports one moved milestone.
type DeadlineChange struct {
	MilestoneID int64  `json:"milestoneId"`
	OldDate     string `json:"oldDate"`
	NewDate     string `json:"newDate"`
}

// RescheduleResponse is the episode after a TX date move plus what moved.
type RescheduleResponse struct {
	EpisodeResponse
	Changes   []DeadlineChange `json:"changes"`
	Preserved []int64          `json:"preserved"`
}

// MilestoneListResponse wraps a collection of milestones.
type MilestoneListResponse struct {
	Milestones []Milestone `json:"milestones"`
}

// MilestoneResponse wraps a single milestone.
type MilestoneResponse struct {
	Milestone Milestone `json:"milestone"`
}

// Content describes an episode deliverable.
type Content struct {
	ID               int64    `json:"id"`
	EpisodeID        int64    `json:"episodeId"`
	ContentType      string   `json:"contentType"`
	CurrentVersion   int      `json:"currentVersion"`
	Status           string   `json:"status"`
	ApprovedAt       string   `json:"approvedAt,omitempty"`
	ApprovedBy       string   `json:"approvedBy,omitempty"`
	LockedAt         string   `json:"lockedAt,omitempty"`
	LockedBy         string   `json:"lockedBy,omitempty"`
	AvailableActions []string `json:"availableActions"`
}

// Version is an immutable content snapshot.
type Version struct {
	ID            int64  `json:"id"`
	ContentID     int64  `json:"contentId"`
	VersionNumber int    `json:"versionNumber"`
	Title         string `json:"title,omitempty"`
	Body          string `json:"body"`
	WordCount     int    `json:"wordCount"`
	ChangeSummary string `json:"changeSummary,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	CreatedBy     string `json:"createdBy,omitempty"`
}

// Highlight is the captured text range a feedback item points at.
type Highlight struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Feedback is one comment, revision request or approval note.
type Feedback struct {
	ID               int64      `json:"id"`
	ContentID        int64      `json:"contentId"`
	VersionID        int64      `json:"versionId"`
	Comment          string     `json:"comment"`
	FeedbackType     string     `json:"feedbackType"`
	Highlight        *Highlight `json:"highlight,omitempty"`
	ParentFeedbackID *int64     `json:"parentFeedbackId,omitempty"`
	IsResolved       bool       `json:"isResolved"`
	ResolvedAt       string     `json:"resolvedAt,omitempty"`
	ResolvedBy       string     `json:"resolvedBy,omitempty"`
	AuthorUserID     string     `json:"authorUserId"`
	IsClientFeedback bool       `json:"isClientFeedback"`
	CreatedAt        string     `json:"createdAt,omitempty"`
	Replies          []Feedback `json:"replies,omitempty"`
}

// ContentResponse is content with its history and threaded feedback.
type ContentResponse struct {
	Content         Content    `json:"content"`
	LatestVersion   *Version   `json:"latestVersion,omitempty"`
	Versions        []Version  `json:"versions"`
	Feedback        []Feedback `json:"feedback"`
	UnresolvedCount int        `json:"unresolvedCount"`
}

// SaveVersionResponse is the result of a save.
type SaveVersionResponse struct {
	Content Content `json:"content"`
	Version Version `json:"version"`
}

// ContentStatusResponse wraps content after a transition.
type ContentStatusResponse struct {
	Content Content `json:"content"`
}

// PreviewResponse is a rendered version.
type PreviewResponse struct {
	Version Version `json:"version"`
	HTML    string  `json:"html"`
}

// FeedbackResponse wraps a single feedback item.
type FeedbackResponse struct {
	Feedback Feedback `json:"feedback"`
}

// Story is a flagged story from the ingestion collaborator.
type Story struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"projectId"`
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	Category  string `json:"category,omitempty"`
	URL       string `json:"url,omitempty"`
	FlaggedAt string `json:"flaggedAt,omitempty"`
}

// SimilarProposal flags overlap between a cluster and an earlier proposal.
type SimilarProposal struct {
	ProposalID        int64   `json:"proposalId"`
	Title             string  `json:"title"`
	Status            string  `json:"status"`
	OverlapPercentage int     `json:"overlapPercentage"`
	ThemeSimilarity   float64 `json:"themeSimilarity"`
}

// Cluster is a machine-generated story group.
type Cluster struct {
	ID                string            `json:"id"`
	Theme             string            `json:"theme"`
	Keywords          []string          `json:"keywords"`
	RelevanceScore    int               `json:"relevanceScore"`
	StoryIDs          []int64           `json:"storyIds"`
	AudienceRelevance string            `json:"audienceRelevance,omitempty"`
	SimilarProposals  []SimilarProposal `json:"similarProposals"`
}

// ClusterPreview is the clustering collaborator's answer for a project.
type ClusterPreview struct {
	Stories     []Story   `json:"stories"`
	Clusters    []Cluster `json:"clusters"`
	Message     string    `json:"message,omitempty"`
	GeneratedAt string    `json:"generatedAt,omitempty"`
	Cached      bool      `json:"cached"`
}

// Proposal is a stored topic proposal.
type Proposal struct {
	ID                    int64    `json:"id"`
	ProjectID             int64    `json:"projectId"`
	Title                 string   `json:"title"`
	Hook                  string   `json:"hook,omitempty"`
	AudienceCareStatement string   `json:"audienceCareStatement,omitempty"`
	TalkingPoints         []string `json:"talkingPoints"`
	ResearchCitations     []string `json:"researchCitations"`
	SourceStoryIDs        []int64  `json:"sourceStoryIds"`
	ClusterTheme          string   `json:"clusterTheme,omitempty"`
	Status                string   `json:"status"`
	LinkedEpisodeID       *int64   `json:"linkedEpisodeId,omitempty"`
	CreatedAt             string   `json:"createdAt,omitempty"`
}

// ProposalListResponse wraps a collection of proposals.
type ProposalListResponse struct {
	Proposals []Proposal `json:"proposals"`
}

// Status aggregates daemon runtime information for API consumers.
type Status struct {
	Running           bool           `json:"running"`
	PID               int            `json:"pid"`
	DatabasePath      string         `json:"databasePath"`
	LockFilePath      string         `json:"lockFilePath"`
	SchemaVersion     int            `json:"schemaVersion"`
	IntegrityOK       bool           `json:"integrityOk"`
	MissingTables     []string       `json:"missingTables,omitempty"`
	Counts            map[string]int `json:"counts"`
	DatabaseError     string         `json:"databaseError,omitempty"`
	Oracle            string         `json:"oracle"`
	LLMConfigured     bool           `json:"llmConfigured"`
	OverdueMilestones int            `json:"overdueMilestones"`
}
