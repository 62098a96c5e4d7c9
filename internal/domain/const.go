package domain

const (
	ActorCtxKey = "oc-actor"
)

const (
	RoleAdmin = "ADMIN"
	RoleHost  = "HOST"
)

const (
	ActivityCollectiveCreated = "collective.created"
)

// ActivityChannel is the redis pub/sub channel activities are published to.
const ActivityChannel = "activities"

const (
	ServiceGithub = "github"

	TagOpenSource = "open source"

	SettingGithubRepo = "githubRepo"
	SettingGithubOrg  = "githubOrg"
)
