package catalog

import "smoking_chamber/internal/models"

func builtInStep(tempC, humidity, minutes int) models.ProgramStep {
	st := models.DefaultStep()
	st.TargetTempC = tempC
	st.TargetHumidity = humidity
	st.DurationMinutes = minutes
	return st
}

// builtIns is the fixed factory program table, in display order.
var builtIns = []models.SmokingProgram{
	{Name: "Fish cold smoke", Steps: []models.ProgramStep{builtInStep(25, 70, 240), builtInStep(30, 65, 360)}, IsBuiltIn: true},
	{Name: "Fish hot smoke", Steps: []models.ProgramStep{builtInStep(50, 60, 30), builtInStep(70, 50, 60)}, IsBuiltIn: true},
	{Name: "Meat cold smoke", Steps: []models.ProgramStep{builtInStep(22, 75, 480), builtInStep(28, 70, 720)}, IsBuiltIn: true},
	{Name: "Meat hot smoke", Steps: []models.ProgramStep{builtInStep(45, 60, 20), builtInStep(65, 50, 90)}, IsBuiltIn: true},
}

// BuiltIns returns a copy of the factory programs.
func BuiltIns() []models.SmokingProgram {
	out := make([]models.SmokingProgram, len(builtIns))
	for i, p := range builtIns {
		out[i] = p.Clone()
	}
	return out
}

// IsBuiltInName reports whether name belongs to a factory program.
func IsBuiltInName(name string) bool {
	for _, p := range builtIns {
		if p.Name == name {
			return true
		}
	}
	return false
}
