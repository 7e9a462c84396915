package shared

const (
	ProjectID = "pipesync-project" // overridden by GOOGLE_CLOUD_PROJECT

	TopicSyncCompleted = "topic-sync-completed"

	EventTypeSyncCompleted  = "com.pipesync.sync.completed"
	EventSourceSynchronizer = "/pipesync/synchronizer"

	CollectionIntegrations = "integrations"
	CollectionExecutions   = "executions"
)
