package split

// EqualStrategy gives every person the same unrounded share.
type EqualStrategy struct{}

func (s *EqualStrategy) Type() Type {
	return TypeEqual
}

func (s *EqualStrategy) Validate(total float64, in Input) error {
	if in.People <= 0 {
		return ErrInvalidPeopleCount
	}
	if !IsFinite(total) {
		return ErrAmountOverflow
	}
	return nil
}

func (s *EqualStrategy) Calculate(total float64, in Input) ([]Share, error) {
	if err := s.Validate(total, in); err != nil {
		return nil, err
	}

	perPerson := total / float64(in.People)
	shares := make([]Share, in.People)
	for i := range shares {
		shares[i] = Share{Person: i + 1, Amount: perPerson}
	}
	return shares, nil
}
