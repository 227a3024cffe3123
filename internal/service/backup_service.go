package service

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/store"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
)

// BackupService snapshots and restores whole sessions as JSON
// documents. Import is wholesale replacement, never a merge.
type BackupService struct {
	store             *store.Store
	logger            *zap.Logger
	capacityWarnItems int
	now               func() time.Time
}

// NewBackupService constructs BackupService. capacityWarnItems sets
// the advisory threshold reported by Info; zero disables the warning.
func NewBackupService(st *store.Store, capacityWarnItems int, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{
		store:             st,
		logger:            logger,
		capacityWarnItems: capacityWarnItems,
		now:               time.Now,
	}
}

// Export serialises the full session state.
func (s *BackupService) Export(sessionID string) ([]byte, error) {
	doc := s.store.Session(sessionID).Snapshot()
	doc.Version = models.BackupVersion
	doc.ExportedAt = s.now().UTC().Format(time.RFC3339)

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to serialise backup")
	}
	return payload, nil
}

// Import validates the document shape and replaces the whole session
// state. Validation runs before any mutation so a rejected document
// leaves existing state untouched. Version skew is accepted with a
// warning; there is no migration logic.
func (s *BackupService) Import(sessionID string, payload []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return appErrors.Wrap(err, appErrors.ErrImportFormat.Code, appErrors.ErrImportFormat.Status, "document is not a JSON object")
	}

	for _, field := range []string{"version", "exported_at"} {
		value, ok := raw[field]
		if !ok {
			return appErrors.New(appErrors.ErrImportFormat.Code, appErrors.ErrImportFormat.Status, "document is missing the "+field+" field")
		}
		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			return appErrors.New(appErrors.ErrImportFormat.Code, appErrors.ErrImportFormat.Status, "document field "+field+" must be a string")
		}
	}

	for _, field := range []string{"courses", "tasks", "grades", "reminders"} {
		value, ok := raw[field]
		if !ok {
			continue
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(value, &arr); err != nil {
			return appErrors.New(appErrors.ErrImportFormat.Code, appErrors.ErrImportFormat.Status, "document field "+field+" must be an array")
		}
	}

	var doc models.BackupDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return appErrors.Wrap(err, appErrors.ErrImportFormat.Code, appErrors.ErrImportFormat.Status, "document does not match the backup schema")
	}

	if doc.Version != models.BackupVersion {
		s.logger.Warn("importing backup with a different format version",
			zap.String("session_id", sessionID),
			zap.String("document_version", doc.Version),
			zap.String("supported_version", models.BackupVersion))
	}

	s.store.Session(sessionID).Replace(doc)
	s.logger.Info("session restored from backup",
		zap.String("session_id", sessionID),
		zap.Int("courses", len(doc.Courses)),
		zap.Int("tasks", len(doc.Tasks)),
		zap.Int("grades", len(doc.Grades)),
		zap.Int("reminders", len(doc.Reminders)))
	return nil
}

// Info reports what the session currently holds, with an advisory
// warning once the soft capacity threshold is crossed.
func (s *BackupService) Info(sessionID string) models.StorageInfo {
	courses, tasks, grades, reminders, hasProfile := s.store.Session(sessionID).Counts()
	info := models.StorageInfo{
		HasProfile:   hasProfile,
		NumCourses:   courses,
		NumTasks:     tasks,
		NumGrades:    grades,
		NumReminders: reminders,
		TotalItems:   courses + tasks + grades + reminders,
		Version:      models.BackupVersion,
	}
	if s.capacityWarnItems > 0 && info.TotalItems >= s.capacityWarnItems {
		info.Warning = fmt.Sprintf("session holds %d items, consider exporting a backup and clearing old records", info.TotalItems)
	}
	return info
}

// Clear wipes the session back to its empty initial state.
func (s *BackupService) Clear(sessionID string) {
	s.store.Session(sessionID).Clear()
	s.logger.Info("session cleared", zap.String("session_id", sessionID))
}
