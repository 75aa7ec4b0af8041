package split

import "math"

// PercentageStrategy charges each person their percentage of the total.
// The rounding remainder is not redistributed: shares are rounded
// independently and may not add up to the total to the cent.
type PercentageStrategy struct{}

func (s *PercentageStrategy) Type() Type {
	return TypePercentage
}

func (s *PercentageStrategy) Validate(total float64, in Input) error {
	sum := Sum(in.Percentages)
	if !IsFinite(total) || !IsFinite(sum) {
		return ErrAmountOverflow
	}
	if math.Abs(sum-100) > PercentageTolerance {
		return &PercentageMismatchError{Sum: sum}
	}
	return nil
}

func (s *PercentageStrategy) Calculate(total float64, in Input) ([]Share, error) {
	if err := s.Validate(total, in); err != nil {
		return nil, err
	}

	shares := make([]Share, len(in.Percentages))
	for i, p := range in.Percentages {
		amount := total * (p / 100)
		if !IsFinite(amount) {
			return nil, ErrAmountOverflow
		}
		shares[i] = Share{Person: i + 1, Amount: Round2(amount)}
	}
	return shares, nil
}
