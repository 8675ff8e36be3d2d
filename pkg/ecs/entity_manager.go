package ecs

import "reflect"

// EntityID 是实体的唯一标识符
type EntityID uint64

// EntityManager 管理所有实体和组件
//
// 与一般的 map 存储不同，这里额外维护一个按创建顺序排列的实体列表，
// 保证查询结果按 EntityID 升序返回，模拟每一帧的遍历顺序都是确定的。
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]interface{}
	// 存活实体（按 ID 升序）
	order []EntityID
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
	// 已标记删除的实体，查询时跳过
	pendingDestroy map[EntityID]struct{}
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1, // ID从1开始,0保留为无效ID
		components:        make(map[EntityID]map[reflect.Type]interface{}),
		order:             make([]EntityID, 0),
		entitiesToDestroy: make([]EntityID, 0),
		pendingDestroy:    make(map[EntityID]struct{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]interface{})
	em.order = append(em.order, id)
	return id
}

// DestroyEntity 标记实体待删除(不立即删除)
// 标记后实体立即从查询结果中消失，组件数据保留到 RemoveMarkedEntities
func (em *EntityManager) DestroyEntity(id EntityID) {
	if _, exists := em.components[id]; !exists {
		return
	}
	if _, marked := em.pendingDestroy[id]; marked {
		return
	}
	em.pendingDestroy[id] = struct{}{}
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// IsAlive 检查实体存在且未被标记删除
func (em *EntityManager) IsAlive(id EntityID) bool {
	if _, exists := em.components[id]; !exists {
		return false
	}
	_, marked := em.pendingDestroy[id]
	return !marked
}

// AddComponent 为实体添加组件
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	componentType := reflect.TypeOf(component)
	if compMap, exists := em.components[id]; exists {
		compMap[componentType] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	if compMap, exists := em.components[id]; exists {
		if comp, found := compMap[componentType]; found {
			return comp, true
		}
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	if compMap, exists := em.components[id]; exists {
		_, found := compMap[componentType]
		return found
	}
	return false
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	if len(em.entitiesToDestroy) == 0 {
		return
	}
	for _, id := range em.entitiesToDestroy {
		delete(em.components, id)
	}

	// 原地压缩存活列表，保持升序
	alive := em.order[:0]
	for _, id := range em.order {
		if _, marked := em.pendingDestroy[id]; !marked {
			alive = append(alive, id)
		}
	}
	em.order = alive

	clear(em.pendingDestroy)
	em.entitiesToDestroy = em.entitiesToDestroy[:0] // 清空切片
}

// Clear 删除所有实体（重新开始对局时使用）
// ID 计数器不回退，旧 ID 不会被复用
func (em *EntityManager) Clear() {
	clear(em.components)
	clear(em.pendingDestroy)
	em.order = em.order[:0]
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
}

// Count 返回存活实体数量（不含已标记删除的实体）
func (em *EntityManager) Count() int {
	return len(em.order) - len(em.pendingDestroy)
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表（按 ID 升序）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	for _, id := range em.order {
		if _, marked := em.pendingDestroy[id]; marked {
			continue
		}
		compMap := em.components[id]
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	return result
}
