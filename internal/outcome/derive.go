package outcome

// derive recomputes the judgement over the full signal list. An undo is the
// strongest negative signal and always escalates severity to high.
func derive(signals []Signal) Derived {
	d := Derived{Severity: SeverityLow}

	for _, s := range signals {
		switch s.Type {
		case SignalAccepted:
			d.Accepted = true
		case SignalUndo:
			d.Negative = true
			d.Severity = SeverityHigh
		case SignalDismissed:
			d.Negative = true
			if d.Severity != SeverityHigh {
				d.Severity = SeverityMedium
			}
		case SignalEditedAfter, SignalRegenerated:
			d.Negative = true
			if d.Severity == SeverityLow {
				d.Severity = SeverityMedium
			}
		}
	}

	// A decision that was undone does not count as accepted, whatever came
	// before the undo.
	if d.Severity == SeverityHigh {
		d.Accepted = false
	}
	return d
}
