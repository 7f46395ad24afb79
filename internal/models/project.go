package models

import "time"

// Branch is the academic department tag on a main project.
type Branch string

const (
	BranchMechanical      Branch = "mechanical"
	BranchComputerScience Branch = "computer_science"
	BranchCivil           Branch = "civil"
	BranchElectronics     Branch = "electronics"
	BranchElectrical      Branch = "electrical"
)

// ValidBranch reports whether the value is a known branch.
func ValidBranch(b Branch) bool {
	switch b {
	case BranchMechanical, BranchComputerScience, BranchCivil, BranchElectronics, BranchElectrical:
		return true
	}
	return false
}

// MainProject is a final-year project with registered student members.
type MainProject struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Branch      Branch    `db:"branch" json:"branch"`
	SubjectID   *string   `db:"subject_id" json:"subject_id,omitempty"`
	UploadedBy  string    `db:"uploaded_by" json:"uploaded_by"`
	Year        int       `db:"year" json:"year"`
	DateCreated time.Time `db:"date_created" json:"date_created"`

	// MemberIDs is loaded from the membership join table, not a column.
	MemberIDs []string `db:"-" json:"member_ids,omitempty"`
}

// MainProjectFilter holds conjunctive equality filters for listings.
// A zero value means no filter, not "match empty".
type MainProjectFilter struct {
	Year   int
	Branch Branch
}

// MiniProject records members as free-text names, not account references.
type MiniProject struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	SubjectID   *string   `db:"subject_id" json:"subject_id,omitempty"`
	Student1    string    `db:"student_1" json:"student_1"`
	Student2    *string   `db:"student_2" json:"student_2,omitempty"`
	Student3    *string   `db:"student_3" json:"student_3,omitempty"`
	Student4    *string   `db:"student_4" json:"student_4,omitempty"`
	UploadedBy  string    `db:"uploaded_by" json:"uploaded_by"`
	DateCreated time.Time `db:"date_created" json:"date_created"`
}

// ProjectFileType tags the kind of attached document.
type ProjectFileType string

const (
	FileTypeSRS   ProjectFileType = "SRS"
	FileTypeCode  ProjectFileType = "CODE"
	FileTypeDoc   ProjectFileType = "DOC"
	FileTypePPT   ProjectFileType = "PPT"
	FileTypeOther ProjectFileType = "OTHER"
)

// ValidProjectFileType reports whether the value is a known file type.
func ValidProjectFileType(t ProjectFileType) bool {
	switch t {
	case FileTypeSRS, FileTypeCode, FileTypeDoc, FileTypePPT, FileTypeOther:
		return true
	}
	return false
}

// ProjectOwnerKind discriminates which project a file belongs to.
type ProjectOwnerKind string

const (
	OwnerMain ProjectOwnerKind = "main"
	OwnerMini ProjectOwnerKind = "mini"
)

// ProjectFile attaches one uploaded document to exactly one project.
// The schema keeps two nullable references for compatibility; the service
// layer guarantees exactly one is set and OwnerKind names which.
type ProjectFile struct {
	ID            string           `db:"id" json:"id"`
	OwnerKind     ProjectOwnerKind `db:"owner_kind" json:"owner_kind"`
	MainProjectID *string          `db:"main_project_id" json:"main_project_id,omitempty"`
	MiniProjectID *string          `db:"mini_project_id" json:"mini_project_id,omitempty"`
	FileType      ProjectFileType  `db:"file_type" json:"file_type"`
	FilePath      string           `db:"file_path" json:"-"`
	FileName      string           `db:"file_name" json:"file_name"`
	UploadedAt    time.Time        `db:"uploaded_at" json:"uploaded_at"`
}
