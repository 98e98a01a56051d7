// Package transport carries completed spectrum packets from a real-time
// producer to a single non-real-time consumer.
//
// Queue is a bounded single-producer/single-consumer channel backed by a
// fixed pool of pre-allocated packets. The producer side (Acquire, Publish)
// never blocks and never allocates. When the consumer falls behind, the
// queue applies its overflow Policy:
//
//   - DropNewest (default): the packet that does not fit is discarded and
//     the queued backlog is kept.
//   - DropOldest: the oldest queued packet is recycled so the consumer
//     always sees the most recent spectra.
//
// Every discarded packet is counted in Stats.Dropped.
//
// Consumers receive packets with Next, TryNext or C and must hand every
// packet back with Release once they are done reading it.
package transport
