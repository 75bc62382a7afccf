package history

import "codeberg.org/mutker/pifanctl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("history_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("history_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("history_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("history_schema_migration_failed")

	// Storage Errors
	ErrStorageAccess = errors.ErrorCode("history_storage_access_failed")
	ErrStorageInit   = errors.ErrorCode("history_storage_init_failed")
	ErrStorageClose  = errors.ErrorCode("history_storage_close_failed")

	// Record Errors
	ErrInvalidRecord   = errors.ErrorCode("history_invalid_record")
	ErrOperationCancel = errors.ErrorCode("history_operation_canceled")
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrInvalidDBPath:          "History database path is empty",
		ErrSchemaInitFailed:       "Failed to initialize history schema",
		ErrSchemaValidationFailed: "Failed to validate history schema",
		ErrSchemaMigrationFailed:  "Failed to migrate history schema",
		ErrStorageAccess:          "Failed to access history database",
		ErrStorageInit:            "Failed to open history database",
		ErrStorageClose:           "Failed to close history database",
		ErrInvalidRecord:          "Invalid history record",
		ErrOperationCancel:        "History operation canceled",
	})
}
