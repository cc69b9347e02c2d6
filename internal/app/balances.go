package app

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"hostal_ops/internal/domain"
)

// ComputeHotelBalances turns the raw loan log into per-hotel netted
// positions. Gross directional flows double-count mutual exposure (A owed
// 100 by B while owing B 80 is a true exposure of 20, not 180), so every
// unordered pair is collapsed to one net direction before totals are summed.
//
// Cancelled transactions are ignored. A non-finite amount is logged and
// skipped. Pure otherwise: no I/O, no retained state.
func ComputeHotelBalances(txns []domain.LoanTransaction) []domain.HotelBalance {
	// gross[origen][destino] = total origen is owed by destino
	gross := make(map[string]map[string]float64)
	participants := make(map[string]bool)

	for _, t := range txns {
		if t.Estado == domain.EstadoCancelado {
			continue
		}
		if math.IsNaN(t.Valor) || math.IsInf(t.Valor, 0) {
			log.Warn().Str("id", t.ID).Float64("valor", t.Valor).Msg("loan amount not a number, skipping")
			continue
		}
		if gross[t.HotelOrigen] == nil {
			gross[t.HotelOrigen] = make(map[string]float64)
		}
		gross[t.HotelOrigen][t.HotelDestino] += t.Valor
		participants[t.HotelOrigen] = true
		participants[t.HotelDestino] = true
	}

	out := make([]domain.HotelBalance, 0, len(participants))
	for hotel := range participants {
		hb := domain.HotelBalance{Hotel: hotel}

		for _, cp := range counterpartsOf(gross, hotel) {
			net := gross[hotel][cp] - gross[cp][hotel]
			switch {
			case net > 0:
				hb.AcreedorDe = append(hb.AcreedorDe, domain.CounterpartNet{Hotel: cp, Net: net})
				hb.Acreedor += net
			case net < 0:
				hb.DeudorDe = append(hb.DeudorDe, domain.CounterpartNet{Hotel: cp, Net: -net})
				hb.Deudor += -net
			}
			// net == 0: fully settled pair, dropped from both sides.
		}

		hb.Balance = hb.Acreedor - hb.Deudor
		sortNets(hb.AcreedorDe)
		sortNets(hb.DeudorDe)
		out = append(out, hb)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].Hotel < out[j].Hotel
	})
	return out
}

// counterpartsOf returns every hotel that has a gross flow with h in either
// direction, in deterministic order.
func counterpartsOf(gross map[string]map[string]float64, h string) []string {
	set := make(map[string]bool)
	for cp := range gross[h] {
		set[cp] = true
	}
	for origen, debtors := range gross {
		if origen == h {
			continue
		}
		if _, ok := debtors[h]; ok {
			set[origen] = true
		}
	}
	cps := make([]string, 0, len(set))
	for cp := range set {
		cps = append(cps, cp)
	}
	sort.Strings(cps)
	return cps
}

func sortNets(nets []domain.CounterpartNet) {
	sort.SliceStable(nets, func(i, j int) bool {
		if nets[i].Net != nets[j].Net {
			return nets[i].Net > nets[j].Net
		}
		return nets[i].Hotel < nets[j].Hotel
	})
}
