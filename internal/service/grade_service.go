package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/store"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
	"github.com/dersly/dersly-api/pkg/export"
)

// CreateGradeRequest carries the payload for recording a grade.
type CreateGradeRequest struct {
	CourseName string  `json:"course_name" validate:"required,min=2,max=100"`
	Grade      float64 `json:"grade" validate:"gte=0"`
	Credits    int     `json:"credits" validate:"required,min=1,max=15"`
	Semester   string  `json:"semester" validate:"required,oneof=Fall Spring Summer"`
	Year       int     `json:"year" validate:"required,min=2000,max=2100"`
}

// UpdateGradeRequest carries a full replacement payload for a grade.
type UpdateGradeRequest struct {
	CourseName string  `json:"course_name" validate:"required,min=2,max=100"`
	Grade      float64 `json:"grade" validate:"gte=0"`
	Credits    int     `json:"credits" validate:"required,min=1,max=15"`
	Semester   string  `json:"semester" validate:"required,oneof=Fall Spring Summer"`
	Year       int     `json:"year" validate:"required,min=2000,max=2100"`
}

// GradeService records course grades and derives GPA figures from them.
type GradeService struct {
	store        *store.Store
	validator    *validator.Validate
	logger       *zap.Logger
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	now          func() time.Time
	roundingMode func(float64) float64
	maxScale     float64
}

// NewGradeService constructs GradeService. Aggregates are rounded to
// two decimals with round half to even.
func NewGradeService(st *store.Store, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		store:        st,
		validator:    validate,
		logger:       logger,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		now:          time.Now,
		roundingMode: func(v float64) float64 { return math.RoundToEven(v*100) / 100 },
		maxScale:     4.0,
	}
}

// Aggregate computes the credit weighted grade average. Entries with a
// grade outside [0, maxScale] or non-positive credits are skipped and
// excluded from both sides of the division. An empty or fully skipped
// input yields 0.0.
func (s *GradeService) Aggregate(entries []models.GradeEntry) float64 {
	var weighted float64
	var credits int
	for _, entry := range entries {
		if entry.Grade < 0 || entry.Grade > s.maxScale || entry.Credits <= 0 {
			s.logger.Warn("skipping out-of-range grade entry",
				zap.String("course", entry.CourseName),
				zap.Float64("grade", entry.Grade),
				zap.Int("credits", entry.Credits))
			continue
		}
		weighted += entry.Grade * float64(entry.Credits)
		credits += entry.Credits
	}
	if credits == 0 {
		return 0.0
	}
	return s.roundingMode(weighted / float64(credits))
}

// SemesterGPAs partitions the session's grades by semester and year
// and aggregates each partition independently.
func (s *GradeService) SemesterGPAs(sessionID string) map[string]float64 {
	partitions := make(map[string][]models.GradeEntry)
	for _, entry := range s.store.Session(sessionID).Grades() {
		key := entry.SemesterKey()
		partitions[key] = append(partitions[key], entry)
	}
	gpas := make(map[string]float64, len(partitions))
	for key, entries := range partitions {
		gpas[key] = s.Aggregate(entries)
	}
	return gpas
}

// Statistics derives the cumulative GPA and per-semester figures.
func (s *GradeService) Statistics(sessionID string) models.GPAStatistics {
	entries := s.store.Session(sessionID).Grades()
	stats := models.GPAStatistics{
		DNO:          s.Aggregate(entries),
		TotalCourses: len(entries),
		SemesterGPAs: s.SemesterGPAs(sessionID),
	}
	stats.DNOLetter = models.LetterForGPA(stats.DNO)
	for _, entry := range entries {
		if entry.Credits > 0 {
			stats.TotalCredits += entry.Credits
		}
	}

	if len(stats.SemesterGPAs) == 0 {
		return stats
	}
	var sum float64
	first := true
	for _, gpa := range stats.SemesterGPAs {
		if first {
			stats.HighestGNO = gpa
			stats.LowestGNO = gpa
			first = false
		}
		if gpa > stats.HighestGNO {
			stats.HighestGNO = gpa
		}
		if gpa < stats.LowestGNO {
			stats.LowestGNO = gpa
		}
		sum += gpa
	}
	stats.AverageGNO = s.roundingMode(sum / float64(len(stats.SemesterGPAs)))
	return stats
}

// ConvertGrade maps a letter or percentage token onto its point value
// in the named scale. Unknown tokens convert to 0.0 so one bad entry
// never sinks a whole import; the miss is logged.
func (s *GradeService) ConvertGrade(scaleName, token string) (float64, error) {
	scale, ok := models.ScaleByName(scaleName)
	if !ok {
		return 0, appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "unknown grading scale: "+scaleName)
	}
	if !scale.Valid(token) {
		s.logger.Warn("unknown grade token converted to zero",
			zap.String("scale", scaleName),
			zap.String("token", token))
		return 0.0, nil
	}
	return scale.Points(token), nil
}

// Scales lists the built-in grading scales.
func (s *GradeService) Scales() []models.GradingScale {
	return models.GradingScales()
}

// RequiredGPA solves for the average needed over newCredits future
// credits to lift the cumulative GPA to target. Returns -1 when the
// target is unreachable, 0.0 when it is already met.
func (s *GradeService) RequiredGPA(currentGPA float64, currentCredits int, target float64, newCredits int) float64 {
	if newCredits <= 0 {
		return -1
	}
	if currentGPA >= target {
		return 0.0
	}
	total := float64(currentCredits + newCredits)
	required := (target*total - currentGPA*float64(currentCredits)) / float64(newCredits)
	if required > s.maxScale {
		return -1
	}
	if required < 0 {
		return 0.0
	}
	return s.roundingMode(required)
}

// List returns the session's grade entries ordered by ID.
func (s *GradeService) List(sessionID string) []models.GradeEntry {
	return s.store.Session(sessionID).Grades()
}

// Create records a grade entry.
func (s *GradeService) Create(sessionID string, req CreateGradeRequest) (*models.GradeEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	if req.Grade > s.maxScale {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("grade %.2f exceeds the %.1f scale", req.Grade, s.maxScale))
	}
	created := s.store.Session(sessionID).AddGrade(models.GradeEntry{
		CourseName: req.CourseName,
		Grade:      req.Grade,
		Credits:    req.Credits,
		Semester:   req.Semester,
		Year:       req.Year,
		CreatedAt:  s.now().UTC(),
	})
	return &created, nil
}

// Update replaces a grade entry.
func (s *GradeService) Update(sessionID string, id int, req UpdateGradeRequest) (*models.GradeEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	if req.Grade > s.maxScale {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("grade %.2f exceeds the %.1f scale", req.Grade, s.maxScale))
	}
	sess := s.store.Session(sessionID)
	existing, ok := sess.Grade(id)
	if !ok {
		return nil, appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "grade entry not found")
	}
	existing.CourseName = req.CourseName
	existing.Grade = req.Grade
	existing.Credits = req.Credits
	existing.Semester = req.Semester
	existing.Year = req.Year
	sess.UpdateGrade(existing)
	return &existing, nil
}

// Delete removes a grade entry.
func (s *GradeService) Delete(sessionID string, id int) error {
	if !s.store.Session(sessionID).DeleteGrade(id) {
		return appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "grade entry not found")
	}
	return nil
}

// Report renders the grade book as a downloadable document. Supported
// formats are csv and pdf.
func (s *GradeService) Report(sessionID, format string) ([]byte, string, error) {
	dataset := s.reportDataset(sessionID)
	switch format {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, "Grade Report")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported report format: "+format)
	}
}

func (s *GradeService) reportDataset(sessionID string) export.Dataset {
	entries := s.store.Session(sessionID).Grades()
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Year != entries[j].Year {
			return entries[i].Year < entries[j].Year
		}
		return entries[i].Semester < entries[j].Semester
	})

	rows := make([]map[string]string, 0, len(entries)+1)
	for _, entry := range entries {
		rows = append(rows, map[string]string{
			"Course":   entry.CourseName,
			"Grade":    fmt.Sprintf("%.2f", entry.Grade),
			"Credits":  fmt.Sprintf("%d", entry.Credits),
			"Semester": entry.SemesterKey(),
		})
	}
	rows = append(rows, map[string]string{
		"Course":   "Cumulative GPA",
		"Grade":    fmt.Sprintf("%.2f", s.Aggregate(entries)),
		"Credits":  "",
		"Semester": "",
	})
	return export.Dataset{
		Headers: []string{"Course", "Grade", "Credits", "Semester"},
		Rows:    rows,
	}
}
