package recommendation

import (
	"errors"
	"fmt"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/services"
)

// ErrCartonExceedsCapacity is returned when an empty container cannot take a single carton
var ErrCartonExceedsCapacity = errors.New("carton does not fit into an empty container")

// PackedLine is the quantity of one product loaded into a packed container
type PackedLine struct {
	Product  *entities.Product
	Quantity entities.Quantity
}

// PackedContainer is a container filled by the packer, before numbering
type PackedContainer struct {
	Lines  []PackedLine
	Volume float64
}

// Cartons returns the cartons loaded into the container
func (c *PackedContainer) Cartons() entities.Quantity {
	var total entities.Quantity
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Packer fills containers from a cluster, spreading capacity across products
type Packer struct {
	capacity  services.CapacityChecker
	increment entities.Quantity
}

// NewPacker creates a packer; increments below one carton are raised to one
func NewPacker(capacity services.CapacityChecker, incrementCartons int64) *Packer {
	if incrementCartons < 1 {
		incrementCartons = 1
	}
	return &Packer{capacity: capacity, increment: entities.Quantity(incrementCartons)}
}

// Pack loads every event's quantity into as many containers as needed.
// Each round gives every product with cartons left one increment, if it fits;
// a round that adds nothing closes the container and opens a new one. Spreading
// products this way keeps one delayed SKU from holding back a whole container.
func (p *Packer) Pack(cluster entities.Cluster) ([]PackedContainer, error) {
	n := len(cluster.Events)
	remaining := make([]entities.Quantity, n)
	perCarton := make([]float64, n)
	left := entities.Quantity(0)
	for i, event := range cluster.Events {
		remaining[i] = event.Quantity
		perCarton[i] = event.Product.VolumePerCarton()
		left += event.Quantity
	}

	var containers []PackedContainer
	loaded := make([]entities.Quantity, n)
	volume := 0.0

	for left > 0 {
		added := false
		for i := 0; i < n; i++ {
			if remaining[i] <= 0 {
				continue
			}
			step := p.increment
			if step > remaining[i] {
				step = remaining[i]
			}
			if !p.capacity.CanAdd(volume, float64(step)*perCarton[i]) {
				// Top off with single cartons when a larger increment no longer fits.
				if step == 1 || !p.capacity.CanAdd(volume, perCarton[i]) {
					continue
				}
				step = 1
			}
			loaded[i] += step
			volume += float64(step) * perCarton[i]
			remaining[i] -= step
			left -= step
			added = true
		}

		if added {
			continue
		}
		if volume == 0 {
			return nil, fmt.Errorf("%w: cluster anchored %s", ErrCartonExceedsCapacity, cluster.Anchor.Format("2006-01-02"))
		}
		containers = append(containers, p.close(cluster, loaded, volume))
		loaded = make([]entities.Quantity, n)
		volume = 0
	}

	if volume > 0 {
		containers = append(containers, p.close(cluster, loaded, volume))
	}
	return containers, nil
}

func (p *Packer) close(cluster entities.Cluster, loaded []entities.Quantity, volume float64) PackedContainer {
	container := PackedContainer{Volume: volume}
	for i, qty := range loaded {
		if qty == 0 {
			continue
		}
		container.Lines = append(container.Lines, PackedLine{
			Product:  cluster.Events[i].Product,
			Quantity: qty,
		})
	}
	return container
}
