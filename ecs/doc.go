// Package ecs bridges arbor stage lifecycle signals into an ECS world.
//
// [NewDonburiStore] publishes pause, resume, focus and destroy signals into a
// [Donburi] world as typed events. Subscribe to [StageEventType] in your
// systems to receive them, e.g. to stop simulation systems while paused.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	stage.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
