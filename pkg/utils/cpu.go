package utils

import "github.com/shirou/gopsutil/cpu"

// CheckCPUUsage samples host CPU utilization and reports whether the worker
// may accept another encode job under the given ceiling (percent). Sampling
// failures count as busy so an unhealthy host backs off instead of pulling
// work it cannot measure.
func CheckCPUUsage(maxUsage float64) (bool, float64) {
	usage, err := cpu.Percent(0, false)
	if err != nil || len(usage) == 0 {
		return false, 0
	}
	return usage[0] <= maxUsage, usage[0]
}
