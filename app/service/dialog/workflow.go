package dialog

import "context"

// entryFunc opens a workflow. It may finish immediately (e.g. nothing to
// cancel) or return the first step to wait in.
type entryFunc func(ctx context.Context, sess *Session) (stepResult, error)

// stepFunc consumes one message while the workflow waits in a step. A
// returned error is a backend failure: the engine reports it and clears the
// session. Validation problems are not errors; they re-prompt via stay.
type stepFunc func(ctx context.Context, sess *Session, text string) (stepResult, error)

type stepResult struct {
	next    Step
	done    bool
	replies []string
}

// stay re-prompts without leaving the current step.
func stay(replies ...string) stepResult {
	return stepResult{replies: replies}
}

func advance(next Step, replies ...string) stepResult {
	return stepResult{next: next, replies: replies}
}

func finish(replies ...string) stepResult {
	return stepResult{done: true, replies: replies}
}

// Workflow is the static definition of one flow: its entry trigger, entry
// handler and state table. Adding a flow means adding one of these to the
// engine's table.
type Workflow struct {
	Kind    Kind
	Trigger string
	Start   entryFunc
	Steps   map[Step]stepFunc
}

func (s *Service) newWorkflows() []*Workflow {
	return []*Workflow{
		{
			Kind:    KindAddCustomer,
			Trigger: "/add_customer",
			Start:   s.addCustomerStart,
			Steps: map[Step]stepFunc{
				StepAddName:    s.addCustomerName,
				StepAddAddress: s.addCustomerAddress,
				StepAddPhone:   s.addCustomerPhone,
			},
		},
		{
			Kind:    KindEditCustomer,
			Trigger: "/edit_customer",
			Start:   s.editCustomerStart,
			Steps: map[Step]stepFunc{
				StepEditConfirm: s.editCustomerConfirm,
				StepEditField:   s.editCustomerField,
				StepEditValue:   s.editCustomerValue,
			},
		},
		{
			Kind:    KindDeleteCustomer,
			Trigger: "/delete_customer",
			Start:   s.deleteCustomerStart,
			Steps: map[Step]stepFunc{
				StepDeleteConfirm: s.deleteCustomerConfirm,
			},
		},
		{
			Kind:    KindCreateOrder,
			Trigger: "/buatorder",
			Start:   s.createOrderStart,
			Steps: map[Step]stepFunc{
				StepChooseMerchant: s.chooseMerchant,
				StepAddProducts:    s.addProducts,
			},
		},
		{
			Kind:    KindCancelOrder,
			Trigger: "/cancelorder",
			Start:   s.cancelOrderStart,
			Steps: map[Step]stepFunc{
				StepSelectOrder:   s.selectOrderNumber,
				StepCancelConfirm: s.cancelOrderConfirm,
			},
		},
	}
}
