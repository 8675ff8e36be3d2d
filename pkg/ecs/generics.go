package ecs

import "reflect"

// 泛型访问封装
// 系统代码统一使用这些函数，避免到处书写 reflect.TypeOf(&X{}) 和类型断言

// GetComponent 获取实体的 T 类型组件
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	comp, ok := em.GetComponent(id, reflect.TypeFor[T]())
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := comp.(T)
	return typed, ok
}

// AddComponent 为实体添加 T 类型组件
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	em.AddComponent(id, component)
}

// HasComponent 检查实体是否拥有 T 类型组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, reflect.TypeFor[T]())
}

// RemoveComponent 移除实体的 T 类型组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, reflect.TypeFor[T]())
}

// GetEntitiesWith1 查询拥有 T1 组件的实体
func GetEntitiesWith1[T1 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(reflect.TypeFor[T1]())
}

// GetEntitiesWith2 查询同时拥有 T1、T2 组件的实体
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(reflect.TypeFor[T1](), reflect.TypeFor[T2]())
}

// GetEntitiesWith3 查询同时拥有 T1、T2、T3 组件的实体
func GetEntitiesWith3[T1, T2, T3 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
}
