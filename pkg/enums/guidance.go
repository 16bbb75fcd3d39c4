package enums

import "fmt"

// HealthGoal is a focus area a customer can select when building a guided
// blend.
type HealthGoal string

const (
	GoalDigestion HealthGoal = "digestion"
	GoalDetox     HealthGoal = "detox"
	GoalEnergy    HealthGoal = "energy"
	GoalSleep     HealthGoal = "sleep"
	GoalStress    HealthGoal = "stress"
	GoalImmunity  HealthGoal = "immunity"
)

func (g HealthGoal) String() string {
	return string(g)
}

func (g HealthGoal) IsValid() bool {
	switch g {
	case GoalDigestion, GoalDetox, GoalEnergy, GoalSleep, GoalStress, GoalImmunity:
		return true
	default:
		return false
	}
}

func ParseHealthGoal(value string) (HealthGoal, error) {
	goal := HealthGoal(value)
	if !goal.IsValid() {
		return "", fmt.Errorf("invalid health goal %q", value)
	}
	return goal, nil
}
