// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/freeflowhq/automation-engine/pkg/actions/calendar"
	"github.com/freeflowhq/automation-engine/pkg/actions/condition"
	"github.com/freeflowhq/automation-engine/pkg/actions/createrecord"
	"github.com/freeflowhq/automation-engine/pkg/actions/delay"
	"github.com/freeflowhq/automation-engine/pkg/actions/email"
	"github.com/freeflowhq/automation-engine/pkg/actions/httprequest"
	"github.com/freeflowhq/automation-engine/pkg/actions/invoice"
	"github.com/freeflowhq/automation-engine/pkg/actions/notification"
	"github.com/freeflowhq/automation-engine/pkg/actions/project"
	"github.com/freeflowhq/automation-engine/pkg/actions/slackmessage"
	"github.com/freeflowhq/automation-engine/pkg/actions/sms"
	"github.com/freeflowhq/automation-engine/pkg/actions/statusupdate"
	"github.com/freeflowhq/automation-engine/pkg/actions/teamsmessage"
	"github.com/freeflowhq/automation-engine/pkg/actions/updaterecord"
	"github.com/freeflowhq/automation-engine/pkg/registry"
)

// NewRegistry builds the action registry with every built-in executor.
// Registration is static at process start.
func NewRegistry(logger *slog.Logger) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.RegisterAction(email.NewActionFactory())
	reg.RegisterAction(notification.NewActionFactory())
	reg.RegisterAction(createrecord.NewActionFactory())
	reg.RegisterAction(updaterecord.NewActionFactory())
	reg.RegisterAction(httprequest.NewActionFactory())
	reg.RegisterAction(delay.NewActionFactory())
	reg.RegisterAction(condition.NewActionFactory())
	reg.RegisterAction(slackmessage.NewActionFactory())
	reg.RegisterAction(teamsmessage.NewActionFactory())
	reg.RegisterAction(sms.NewActionFactory())
	reg.RegisterAction(invoice.NewActionFactory())
	reg.RegisterAction(project.NewActionFactory())
	reg.RegisterAction(calendar.NewActionFactory())
	reg.RegisterAction(statusupdate.NewActionFactory())

	return reg
}
