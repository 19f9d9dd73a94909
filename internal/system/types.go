package system

// HostInfo identifies the machine the dashboard runs on
type HostInfo struct {
	Hostname    string `json:"hostname"`
	OS          string `json:"os"`
	Platform    string `json:"platform"`
	KernelArch  string `json:"kernel_arch"`
	Uptime      uint64 `json:"uptime"`
	UptimeHuman string `json:"uptime_human"`
}
