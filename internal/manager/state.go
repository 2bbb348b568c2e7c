package manager

// CanAcceptTrainingData reports whether rows may be added in this state.
func (s State) CanAcceptTrainingData() bool {
	return s == StateCreated || s == StateTraining
}

// CanTrain reports whether a fit may start in this state.
func (s State) CanTrain() bool { return s == StateTraining }

// CanPredict reports whether the model has been fitted.
func (s State) CanPredict() bool { return s == StateReady }

// Live reports whether the state belongs to a model still held by a registry.
func (s State) Live() bool {
	return s == StateCreated || s == StateTraining || s == StateReady
}

// legalTransitions lists every allowed from -> to move. There is no way back
// from ready to training: ready models do not accept more rows.
var legalTransitions = map[State][]State{
	StateCreated:  {StateTraining, StateRemoved},
	StateTraining: {StateTraining, StateReady, StateRemoved},
	StateReady:    {StateRemoved},
}

func canTransition(from, to State) bool {
	for _, s := range legalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
