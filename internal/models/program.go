package models

// CompressorAuto leaves the dehumidifier drive to the control loop.
const CompressorAuto = -1

// ProgramStep is one phase of a smoking program.
type ProgramStep struct {
	TargetTempC     int  `json:"target_temp_c"`     // °C
	TargetHumidity  int  `json:"target_humidity"`   // %
	DurationMinutes int  `json:"duration_minutes"`  // minutes
	HysteresisC     int  `json:"hysteresis_c"`      // °C band around target
	WaitForTemp     bool `json:"wait_for_temp"`     // hold step clock until target temp reached
	WaitForHumidity bool `json:"wait_for_humidity"` // hold step clock until target humidity reached
	CompressorPWM   int  `json:"compressor_pwm"`    // -1 = auto, else duty 0-100
	FanPWM          int  `json:"fan_pwm"`           // duty 0-100
}

// DefaultStep returns a step populated with the firmware defaults.
func DefaultStep() ProgramStep {
	return ProgramStep{
		TargetTempC:     30,
		TargetHumidity:  70,
		DurationMinutes: 60,
		HysteresisC:     2,
		WaitForTemp:     true,
		WaitForHumidity: false,
		CompressorPWM:   CompressorAuto,
		FanPWM:          50,
	}
}

// SmokingProgram is an ordered list of steps. Step order is execution order.
type SmokingProgram struct {
	Name      string        `json:"name"`
	Steps     []ProgramStep `json:"steps"`
	IsBuiltIn bool          `json:"is_built_in"`
}

// Clone returns a copy that shares no memory with p.
func (p SmokingProgram) Clone() SmokingProgram {
	out := p
	if p.Steps != nil {
		out.Steps = make([]ProgramStep, len(p.Steps))
		copy(out.Steps, p.Steps)
	}
	return out
}

// ProgramSummary is the short listing form used by the web UI.
type ProgramSummary struct {
	Name      string `json:"name"`
	Steps     int    `json:"steps"`
	IsBuiltIn bool   `json:"is_built_in"`
}
