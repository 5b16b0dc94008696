package metrics

// IncrementTaskCreated increments the task creation counter
func (m *Metrics) IncrementTaskCreated() {
	m.safeExecute("IncrementTaskCreated", func() {
		m.TaskCreatedTotal.Inc()
	})
}

// IncrementTransitionAllowed increments the allowed transition counter
func (m *Metrics) IncrementTransitionAllowed() {
	m.safeExecute("IncrementTransitionAllowed", func() {
		m.TransitionsAllowedTotal.Inc()
	})
}

// IncrementTransitionRejected increments the rejected transition counter
func (m *Metrics) IncrementTransitionRejected() {
	m.safeExecute("IncrementTransitionRejected", func() {
		m.TransitionsRejectedTotal.Inc()
	})
}

// IncrementFieldValidationFailure increments the field validation failure counter
func (m *Metrics) IncrementFieldValidationFailure() {
	m.safeExecute("IncrementFieldValidationFailure", func() {
		m.FieldValidationFailuresTotal.Inc()
	})
}

// SetTasksTotal sets the total tasks gauge
func (m *Metrics) SetTasksTotal(count int64) {
	m.safeExecute("SetTasksTotal", func() {
		m.TasksTotal.Set(float64(count))
	})
}
