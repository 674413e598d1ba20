package models

import "time"

// BatchStatus is the lifecycle state of a homework batch.
type BatchStatus string

const (
	BatchDraft     BatchStatus = "draft"
	BatchActive    BatchStatus = "active"
	BatchCompleted BatchStatus = "completed"
)

// Valid reports whether s is one of the known batch states.
func (s BatchStatus) Valid() bool {
	switch s {
	case BatchDraft, BatchActive, BatchCompleted:
		return true
	}
	return false
}

// Badge is the fixed label table for batch states.
func (s BatchStatus) Badge() string {
	switch s {
	case BatchDraft:
		return "draft"
	case BatchCompleted:
		return "done"
	}
	return "active"
}

// Color is the fixed color table for batch states. Unknown states render
// as active, same as the badge mapping.
func (s BatchStatus) Color() string {
	switch s {
	case BatchDraft:
		return "#9CA3AF"
	case BatchCompleted:
		return "#34D399"
	}
	return "#F59E0B"
}

// ItemStatus is the progress state of a single homework item.
// Transitions are forward-only: todo -> doing -> done.
type ItemStatus string

const (
	ItemTodo  ItemStatus = "todo"
	ItemDoing ItemStatus = "doing"
	ItemDone  ItemStatus = "done"
)

// Valid reports whether s is one of the known item states.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemTodo, ItemDoing, ItemDone:
		return true
	}
	return false
}

// Next returns the state that follows s, or s itself for done.
func (s ItemStatus) Next() ItemStatus {
	switch s {
	case ItemTodo:
		return ItemDoing
	case ItemDoing:
		return ItemDone
	}
	return s
}

// ImageType classifies an uploaded image's role in a batch.
type ImageType string

const (
	ImageHomework  ImageType = "homework"
	ImageReference ImageType = "reference"
)

// Toggled returns the opposite classification.
func (t ImageType) Toggled() ImageType {
	if t == ImageHomework {
		return ImageReference
	}
	return ImageHomework
}

// Subject is immutable reference data shared across batches.
type Subject struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
}

// DefaultSubjects is the fallback set used when the remote fetch and the
// local cache both fail. The app must still come up.
func DefaultSubjects() []Subject {
	return []Subject{
		{ID: 1, Name: "Chinese", Color: "#FB7185"},
		{ID: 2, Name: "Math", Color: "#60A5FA"},
		{ID: 3, Name: "English", Color: "#4ADE80"},
	}
}

// Item is one discrete homework task belonging to a batch. started_at and
// finished_at are set server-side; the client only echoes them back.
type Item struct {
	ID            int64      `json:"id"`
	BatchID       int64      `json:"batch_id"`
	Subject       Subject    `json:"subject"`
	Text          string     `json:"text"`
	KeyConcept    string     `json:"key_concept,omitempty"`
	Status        ItemStatus `json:"status"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	SourceImageID *int64     `json:"source_image_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Image is an uploaded photograph attached to a batch.
type Image struct {
	ID        int64     `json:"id"`
	BatchID   int64     `json:"batch_id"`
	FilePath  string    `json:"file_path"`
	FileName  string    `json:"file_name"`
	FileSize  int64     `json:"file_size,omitempty"`
	ImageType ImageType `json:"image_type"`
	SortOrder int       `json:"sort_order"`
}

// Batch owns its items and images exclusively; the server cascades deletes.
type Batch struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Status      BatchStatus `json:"status"`
	DeadlineAt  *time.Time  `json:"deadline_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Items       []Item      `json:"items,omitempty"`
	Images      []Image     `json:"images,omitempty"`
}

// DoneCount returns how many items have reached done.
func (b *Batch) DoneCount() int {
	n := 0
	for _, it := range b.Items {
		if it.Status == ItemDone {
			n++
		}
	}
	return n
}

// CompletionFraction returns done-items / total-items in [0,1].
// A batch with no items reports 0, never NaN.
func (b *Batch) CompletionFraction() float64 {
	if len(b.Items) == 0 {
		return 0
	}
	return float64(b.DoneCount()) / float64(len(b.Items))
}

// DisplayImages merges a batch's images into viewer order: homework images
// by sort order, then reference images by sort order.
func DisplayImages(images []Image) []Image {
	ordered := make([]Image, 0, len(images))
	for _, typ := range []ImageType{ImageHomework, ImageReference} {
		start := len(ordered)
		for _, img := range images {
			if img.ImageType == typ {
				ordered = append(ordered, img)
			}
		}
		part := ordered[start:]
		for i := 1; i < len(part); i++ {
			for j := i; j > 0 && part[j].SortOrder < part[j-1].SortOrder; j-- {
				part[j], part[j-1] = part[j-1], part[j]
			}
		}
	}
	return ordered
}

// Classification is the recognition service's partition of a batch's
// images, by image index. An index belongs to at most one set.
type Classification struct {
	HomeworkImages  []int `json:"homework_images"`
	ReferenceImages []int `json:"reference_images"`
}

// Assign moves index into the set for typ, removing it from the other set.
// Inserting an index already present is a no-op.
func (c *Classification) Assign(index int, typ ImageType) {
	if typ == ImageHomework {
		c.ReferenceImages = removeIndex(c.ReferenceImages, index)
		c.HomeworkImages = insertIndex(c.HomeworkImages, index)
	} else {
		c.HomeworkImages = removeIndex(c.HomeworkImages, index)
		c.ReferenceImages = insertIndex(c.ReferenceImages, index)
	}
}

// Contains reports whether index is classified as typ.
func (c *Classification) Contains(index int, typ ImageType) bool {
	set := c.HomeworkImages
	if typ == ImageReference {
		set = c.ReferenceImages
	}
	for _, i := range set {
		if i == index {
			return true
		}
	}
	return false
}

func insertIndex(set []int, index int) []int {
	for _, i := range set {
		if i == index {
			return set
		}
	}
	return append(set, index)
}

func removeIndex(set []int, index int) []int {
	out := make([]int, 0, len(set))
	for _, i := range set {
		if i != index {
			out = append(out, i)
		}
	}
	return out
}

// DraftItem is the pre-confirmation superset of Item: a client-only
// correlation id and no server id until the batch is confirmed.
type DraftItem struct {
	ClientID      string `json:"-"`
	ID            int64  `json:"id,omitempty"`
	SubjectID     int64  `json:"subject_id"`
	Text          string `json:"text"`
	KeyConcept    string `json:"key_concept,omitempty"`
	SourceImageID *int64 `json:"source_image_id,omitempty"`
}
