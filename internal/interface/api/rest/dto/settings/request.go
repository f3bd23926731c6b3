package settings

type QuickSettingRequest struct {
	Setting string `json:"setting"`
	Value   any    `json:"value"`
}
