package show

import "telenovela/internal/state"

// The helpers below are the only code that writes entity state fields.
// They validate against the family machine first, so a failed transition
// leaves the entity untouched.

func transitionStructure(m state.Machine[StructureState], current *StructureState, target StructureState) error {
	next, err := m.Transition(*current, target)
	if err != nil {
		return err
	}
	*current = next
	return nil
}

func transitionGeneration(current *GenerationState, target GenerationState) error {
	next, err := episodeMachine.Transition(*current, target)
	if err != nil {
		return err
	}
	*current = next
	return nil
}

func transitionMedia(m state.Machine[MediaState], current *MediaState, target MediaState) error {
	next, err := m.Transition(*current, target)
	if err != nil {
		return err
	}
	*current = next
	return nil
}

func transitionPrompt(m state.Machine[PromptState], current *PromptState, target PromptState) error {
	next, err := m.Transition(*current, target)
	if err != nil {
		return err
	}
	*current = next
	return nil
}
