package domain

import "time"

// EngineFormat marks the shape of serialized DocumentModels.
// Increment it whenever DocumentModel or DocBlock change in a way that
// makes previously cached entries unreadable or misleading.
const EngineFormat = "docs/3"

type SourceUnit struct {
	Identity string
	Content  string
	ModTime  time.Time
}

type DeclKind string

const (
	KindFunction  DeclKind = "function"
	KindClass     DeclKind = "class"
	KindInterface DeclKind = "interface"
	KindTrait     DeclKind = "trait"
	KindNamespace DeclKind = "namespace"
	KindUnit      DeclKind = "unit"
)

type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type Return struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type DocBlock struct {
	Summary     string              `json:"summary,omitempty"`
	Description string              `json:"description,omitempty"`
	Params      []Param             `json:"params,omitempty"`
	Return      *Return             `json:"return,omitempty"`
	Author      TagValue            `json:"author,omitzero"`
	Since       TagValue            `json:"since,omitzero"`
	Version     TagValue            `json:"version,omitzero"`
	Todo        TagValue            `json:"todo,omitzero"`
	Link        TagValue            `json:"link,omitzero"`
	Other       map[string]TagValue `json:"other,omitempty"`
}

type Declaration struct {
	Kind DeclKind `json:"kind"`
	Name string   `json:"name"`
	Args string   `json:"args,omitempty"`
	Line int      `json:"line,omitempty"`
	Doc  DocBlock `json:"doc"`
}

type WarningCode string

const (
	WarnMissingSummary WarningCode = "missing-summary"
	WarnMissingAuthor  WarningCode = "missing-author"
	WarnMissingParams  WarningCode = "missing-params"
	WarnMissingParam   WarningCode = "missing-param"
)

type Warning struct {
	Target  string      `json:"target"`
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

type Provenance string

const (
	ProvenanceFresh  Provenance = "fresh"
	ProvenanceMemory Provenance = "memory-cache"
	ProvenanceDisk   Provenance = "disk-cache"
)

// DocumentModel is the extraction result for one SourceUnit.
// Models may be shared through the cache; treat them as read-only.
type DocumentModel struct {
	Identity     string         `json:"identity"`
	Main         DocBlock       `json:"main"`
	MainAttached bool           `json:"main_attached,omitempty"`
	Declarations []Declaration  `json:"declarations"`
	Index        map[string]int `json:"index"`
	Warnings     []Warning      `json:"warnings,omitempty"`
	Errors       []string       `json:"errors,omitempty"`
	Provenance   Provenance     `json:"provenance"`
	Target       string         `json:"target,omitempty"`
}

type Summary struct {
	Identity string `json:"identity"`
	Summary  string `json:"summary"`
	Error    string `json:"error,omitempty"`
}

type CacheEntry struct {
	Hash      string         `json:"hash"`
	Model     *DocumentModel `json:"model"`
	WrittenAt int64          `json:"written_at"`
	Marker    string         `json:"marker"`
}
