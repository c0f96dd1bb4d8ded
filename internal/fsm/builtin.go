// Built-in machine definitions for the standard entity kinds. YAML
// machine files may override any of these per deployment.
package fsm

import "github.com/praxis-works/onto/pkg/types"

func builtinMachines() []*types.Machine {
	return []*types.Machine{
		{
			Prefix: types.KindProject,
			States: []types.State{
				{Name: "active", Initial: true},
				{Name: "paused"},
				{Name: "archived", Final: true},
			},
			Transitions: []types.Transition{
				{Event: "pause", From: "active", To: "paused"},
				{Event: "resume", From: "paused", To: "active"},
				{Event: "archive", From: "active", To: "archived"},
				{Event: "archive", From: "paused", To: "archived"},
			},
		},
		{
			Prefix: types.KindGoal,
			States: []types.State{
				{Name: "draft", Initial: true},
				{Name: "active"},
				{Name: "achieved", Final: true},
				{Name: "abandoned", Final: true},
			},
			Transitions: []types.Transition{
				{Event: "activate", From: "draft", To: "active", Guards: []string{"has_prop:title"}},
				{Event: "achieve", From: "active", To: "achieved"},
				{Event: "abandon", From: "draft", To: "abandoned"},
				{Event: "abandon", From: "active", To: "abandoned"},
			},
		},
		{
			Prefix: types.KindMilestone,
			States: []types.State{
				{Name: "planned", Initial: true},
				{Name: "reached", Final: true},
				{Name: "missed", Final: true},
			},
			Transitions: []types.Transition{
				{Event: "reach", From: "planned", To: "reached"},
				{Event: "miss", From: "planned", To: "missed"},
			},
		},
		{
			Prefix: types.KindTask,
			States: []types.State{
				{Name: "todo", Initial: true},
				{Name: "in_progress"},
				{Name: "done", Final: true},
				{Name: "cancelled", Final: true},
			},
			Transitions: []types.Transition{
				{Event: "start", From: "todo", To: "in_progress", Guards: []string{"project_active"}},
				{
					Event:   "complete",
					From:    "todo",
					To:      "done",
					Guards:  []string{"has_prop:title"},
					Actions: []string{"generate_document:task_summary"},
				},
				{
					Event:   "complete",
					From:    "in_progress",
					To:      "done",
					Guards:  []string{"has_prop:title"},
					Actions: []string{"generate_document:task_summary"},
				},
				{Event: "cancel", From: "todo", To: "cancelled"},
				{Event: "cancel", From: "in_progress", To: "cancelled"},
			},
		},
		{
			Prefix: types.KindPlan,
			States: []types.State{
				{Name: "draft", Initial: true},
				{Name: "active"},
				{Name: "completed", Final: true},
			},
			Transitions: []types.Transition{
				{Event: "activate", From: "draft", To: "active"},
				{Event: "complete", From: "active", To: "completed", Actions: []string{"stamp:completed_at"}},
			},
		},
		{
			Prefix: types.KindDocument,
			States: []types.State{
				{Name: "draft", Initial: true},
				{Name: "published", Final: true},
				{Name: "archived", Final: true},
			},
			Transitions: []types.Transition{
				{Event: "publish", From: "draft", To: "published"},
				{Event: "archive", From: "draft", To: "archived"},
			},
		},
		{
			Prefix: types.KindOutput,
			States: []types.State{
				{Name: "pending", Initial: true},
				{Name: "delivered", Final: true},
			},
			Transitions: []types.Transition{
				{Event: "deliver", From: "pending", To: "delivered"},
			},
		},
		{
			Prefix: types.KindEvent,
			States: []types.State{
				{Name: "scheduled", Initial: true},
				{Name: "completed", Final: true},
				{Name: "cancelled", Final: true},
			},
			Transitions: []types.Transition{
				{Event: "complete", From: "scheduled", To: "completed"},
				{Event: "cancel", From: "scheduled", To: "cancelled"},
			},
		},
	}
}
