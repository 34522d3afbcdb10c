// Copyright 2024 The Celo Authors
// This file is part of the celo library.
//
// The celo library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The celo library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the celo library. If not, see <http://www.gnu.org/licenses/>.

package signer

import "github.com/celo-org/celo-blockchain/metrics"

var (
	populateTimer     = metrics.NewRegisteredTimer("signer/populate", nil)
	signTimer         = metrics.NewRegisteredTimer("signer/sign", nil)
	signFailureMeter  = metrics.NewRegisteredMeter("signer/sign/failure", nil)
	deviceSignTimer   = metrics.NewRegisteredTimer("signer/device/sign", nil)
	maskedEstimations = metrics.NewRegisteredMeter("signer/estimate/masked", nil)
)
