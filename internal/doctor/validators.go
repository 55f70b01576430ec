package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// hostValidator reports the operating system and machine identity.
type hostValidator struct{}

func (v *hostValidator) Title() string { return "Host" }

func (v *hostValidator) Validate(ctx context.Context) Result {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return Result{Status: StatusError, Summary: fmt.Sprintf("could not read host info: %v", err)}
	}
	return Result{
		Status:  StatusOK,
		Summary: fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch),
		Details: []string{
			fmt.Sprintf("hostname %s", info.Hostname),
			fmt.Sprintf("kernel %s", info.KernelVersion),
			fmt.Sprintf("uptime %ds", info.Uptime),
			fmt.Sprintf("go runtime %s/%s", runtime.GOOS, runtime.GOARCH),
		},
	}
}

// resourceValidator checks free memory and disk space.
type resourceValidator struct{}

func (v *resourceValidator) Title() string { return "Resources" }

func (v *resourceValidator) Validate(ctx context.Context) Result {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Result{Status: StatusError, Summary: fmt.Sprintf("could not read memory stats: %v", err)}
	}
	du, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return Result{Status: StatusError, Summary: fmt.Sprintf("could not read disk usage: %v", err)}
	}

	status := StatusOK
	if vm.UsedPercent > 95 || du.UsedPercent > 95 {
		status = StatusWarning
	}
	return Result{
		Status: status,
		Summary: fmt.Sprintf("memory %.0f%% used, disk %.0f%% used",
			vm.UsedPercent, du.UsedPercent),
		Details: []string{
			fmt.Sprintf("memory total %d MiB", vm.Total/1024/1024),
			fmt.Sprintf("disk free %d MiB", du.Free/1024/1024),
		},
	}
}

// toolsValidator checks that required external tools are on PATH.
type toolsValidator struct {
	tools []string
}

func (v *toolsValidator) Title() string { return "External tools" }

func (v *toolsValidator) Validate(ctx context.Context) Result {
	var missing []string
	var details []string
	for _, tool := range v.tools {
		path, err := exec.LookPath(tool)
		if err != nil {
			missing = append(missing, tool)
			details = append(details, fmt.Sprintf("%s: not found on PATH", tool))
			continue
		}
		details = append(details, fmt.Sprintf("%s: %s", tool, path))
	}
	if len(missing) > 0 {
		return Result{
			Status:  StatusWarning,
			Summary: fmt.Sprintf("%d of %d tools missing", len(missing), len(v.tools)),
			Details: details,
		}
	}
	return Result{
		Status:  StatusOK,
		Summary: fmt.Sprintf("all %d tools found", len(v.tools)),
		Details: details,
	}
}
