package i18n

// Key identifies a localizable piece of text
type Key string

const (
	CommonSearch  Key = "common.search"
	CommonAdd     Key = "common.add"
	CommonEdit    Key = "common.edit"
	CommonDelete  Key = "common.delete"
	CommonCancel  Key = "common.cancel"
	CommonSave    Key = "common.save"
	CommonConfirm Key = "common.confirm"
	CommonLoading Key = "common.loading"
	CommonError   Key = "common.error"
	CommonSuccess Key = "common.success"
	CommonAddNew  Key = "common.addNew"
	CardView      Key = "common.cardView"
	ListView      Key = "common.listView"
	CommonNew     Key = "common.new"
	CommonDismiss Key = "common.dismiss"

	AgentflowsTitle             Key = "agentflows.title"
	AgentflowsDescription       Key = "agentflows.description"
	AgentflowsSearchPlaceholder Key = "agentflows.searchPlaceholder"
	AgentflowsNoAgentsYet       Key = "agentflows.noAgentsYet"
	AgentflowsV1                Key = "agentflows.v1"
	AgentflowsV2                Key = "agentflows.v2"
	DeprecationNoticeTitle      Key = "agentflows.deprecationNotice.title"
	DeprecationNoticeMessage    Key = "agentflows.deprecationNotice.message"
)
