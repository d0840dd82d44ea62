package apierrors

// Message ids; each must exist in every translation file.
const (
	MsgUnauthorized    = "unauthorized"
	MsgForbidden       = "forbidden"
	MsgInternal        = "internalError"
	MsgInvalidPayload  = "invalidPayload"
	MsgMissingID       = "missingID"
	MsgInvalidID       = "invalidID"
	MsgTaskNotFound    = "taskNotFound"
	MsgProjectNotFound = "projectNotFound"
	MsgTagNotFound     = "tagNotFound"
	MsgGoalNotFound    = "goalNotFound"
	MsgTaskTagNotFound = "taskTagNotFound"
	MsgTagNameTaken    = "tagNameTaken"
	MsgTaskTagExists   = "taskTagExists"

	MsgTitleRequired      = "titleRequired"
	MsgInvalidStatus      = "invalidStatus"
	MsgInvalidPriority    = "invalidPriority"
	MsgNameRequired       = "nameRequired"
	MsgInvalidColor       = "invalidColor"
	MsgTaskTagRequired    = "taskTagRequired"
	MsgInvalidAction      = "invalidAction"
	MsgActivityRequired   = "activityFieldsRequired"
	MsgGoalFieldsRequired = "goalFieldsRequired"
	MsgInvalidGoalDates   = "invalidGoalDates"
	MsgInvalidTimeRange   = "invalidTimeRange"
	MsgDatesRequired      = "datesRequired"
	MsgInvalidDate        = "invalidDate"
	MsgInvertedDates      = "invertedDates"
	MsgInvalidReportType  = "invalidReportType"
	MsgInvalidFormat      = "invalidFormat"
	MsgProjectIDRequired  = "projectIdRequired"

	MsgFailListTasks      = "failListTasks"
	MsgFailSaveTask       = "failSaveTask"
	MsgFailDeleteTask     = "failDeleteTask"
	MsgFailListProjects   = "failListProjects"
	MsgFailSaveProject    = "failSaveProject"
	MsgFailDeleteProject  = "failDeleteProject"
	MsgFailSaveTag        = "failSaveTag"
	MsgFailDeleteTag      = "failDeleteTag"
	MsgFailTaskTags       = "failTaskTags"
	MsgFailActivities     = "failActivities"
	MsgFailDashboard      = "failDashboard"
	MsgFailReport         = "failReport"
	MsgFailPreferences    = "failPreferences"
	MsgFailGoals          = "failGoals"
	MsgFailProfile        = "failProfile"
	MsgFailLogout         = "failLogout"
)
