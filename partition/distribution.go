package partition

import (
	"context"
	"encoding/csv"
	"io"
	"math/big"
	"strconv"

	"github.com/uyouii/splash-energy/model"
	"github.com/uyouii/splash-energy/utils"
	"go.uber.org/zap"
)

// Distribution returns the probability of each particle count per splash.
// Every integer total n is weighted by the discretised normal, and its mass
// is shared between particle counts k in proportion to the number of ways n
// splits into k particles of allowed sizes.
func Distribution(ctx context.Context, p *Parameters) []model.Probability {
	logger := utils.GetLogger(ctx)

	counter := NewCounter()
	totals := DiscreteNormal(float64(p.EMean), p.EStd, p.EMin, p.EMax)
	parts := map[int]*big.Float{}

	skipped := 0
	for number := p.MinNumber; number <= p.MaxNumber; number++ {
		kLo, kHi := utils.CeilDiv(number, p.PartSizeMax), number/p.PartSizeMin

		counts := map[int]*big.Int{}
		cumulative := new(big.Int)
		for k := kLo; k <= kHi; k++ {
			counts[k] = counter.Count(number, k, p.PartSizeMin, p.PartSizeMax)
			cumulative.Add(cumulative, counts[k])
		}
		if cumulative.Sign() == 0 {
			skipped++
			continue
		}

		cumulativeF := new(big.Float).SetPrec(floatPrec).SetInt(cumulative)
		for k := kLo; k <= kHi; k++ {
			if counts[k].Sign() == 0 {
				continue
			}
			share := new(big.Float).SetPrec(floatPrec).SetInt(counts[k])
			share.Quo(share, cumulativeF)
			share.Mul(share, totals[number])
			if parts[k] == nil {
				parts[k] = new(big.Float).SetPrec(floatPrec)
			}
			parts[k].Add(parts[k], share)
		}
	}

	logger.Info("partition distribution computed", zap.Int("totals", p.MaxNumber-p.MinNumber+1),
		zap.Int("skipped_totals", skipped), zap.Int("memo_size", counter.Size()))

	res := make([]model.Probability, 0, p.NumPartsMax-p.NumPartsMin+1)
	for k := p.NumPartsMin; k <= p.NumPartsMax; k++ {
		prob := parts[k]
		if prob == nil {
			prob = new(big.Float).SetPrec(floatPrec)
		}
		f, _ := prob.Float64()
		res = append(res, model.Probability{No: k, Prob: f, Text: prob.Text('g', OutputDigits)})
	}
	return res
}

// WriteCSV writes the distribution as "no,prob" rows.
func WriteCSV(w io.Writer, dist []model.Probability) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"no", "prob"}); err != nil {
		return err
	}
	for _, p := range dist {
		text := p.Text
		if text == "" {
			text = strconv.FormatFloat(p.Prob, 'g', OutputDigits, 64)
		}
		if err := writer.Write([]string{strconv.Itoa(p.No), text}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
